package service

import (
	"bitwise74/account-api/config"
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const otpSubject = "Your verification code"

// Notifier delivers one time passcodes to users
type Notifier interface {
	SendOTP(ctx context.Context, email, otp string) error
}

func NewNotifier(c config.MailConfig) (Notifier, error) {
	switch c.Provider {
	case "smtp":
		return NewSMTPNotifier(c), nil
	case "resend":
		return NewResendNotifier(c), nil
	case "log":
		return LogNotifier{}, nil
	}

	return nil, fmt.Errorf("unknown mail provider %q", c.Provider)
}

func otpBody(otp string) string {
	return fmt.Sprintf("<p>Your verification code is <b>%s</b>.</p><p>It expires in a couple of minutes.</p>", otp)
}

type SMTPNotifier struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPNotifier(c config.MailConfig) *SMTPNotifier {
	username := c.Username
	if username == "" {
		username = c.From
	}

	return &SMTPNotifier{
		from:   c.From,
		dialer: gomail.NewDialer(c.Host, c.Port, username, c.Password),
	}
}

func (n *SMTPNotifier) SendOTP(ctx context.Context, email, otp string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()

	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", otpSubject)
	m.SetBody("text/html", otpBody(otp))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail, %w", err)
	}

	return nil
}

type ResendNotifier struct {
	from   string
	client *resend.Client
}

func NewResendNotifier(c config.MailConfig) *ResendNotifier {
	return &ResendNotifier{
		from:   c.From,
		client: resend.NewClient(c.ResendAPIKey),
	}
}

func (n *ResendNotifier) SendOTP(ctx context.Context, email, otp string) error {
	_, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{email},
		Subject: otpSubject,
		Html:    otpBody(otp),
	})
	if err != nil {
		return fmt.Errorf("failed to send mail through resend, %w", err)
	}

	return nil
}

// LogNotifier writes codes to the log instead of sending them. Development only.
type LogNotifier struct{}

func (LogNotifier) SendOTP(_ context.Context, email, otp string) error {
	zap.L().Info("OTP issued", zap.String("email", email), zap.String("otp", otp))
	return nil
}
