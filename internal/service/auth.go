// Package service contains the account and image workflows. Handlers decode and
// validate requests, then call into here with plain values.
package service

import (
	"bitwise74/account-api/internal/cache"
	"bitwise74/account-api/internal/model"
	"bitwise74/account-api/internal/store"
	"bitwise74/account-api/pkg/security"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	msgIncorrectOTP   = "Incorrect or expired otp"
	msgBadCredentials = "Email or password incorrect"
	msgDuplicateUser  = "User with the same email, username or phone number already exists"
)

type SignUpInput struct {
	Name        string        `json:"name" validate:"required,min=2,max=100"`
	Email       string        `json:"email" validate:"required,mailaddr"`
	Password    string        `json:"password" validate:"required,password"`
	Username    *string       `json:"username" validate:"omitempty,min=3,max=32"`
	PhoneNumber *string       `json:"phone_number" validate:"omitempty,e164"`
	Gender      *model.Gender `json:"gender" validate:"omitempty,oneof=male female"`
}

type ConfirmOTPInput struct {
	Email string `json:"email" validate:"required,mailaddr"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResendOTPInput struct {
	Email string `json:"email" validate:"required,mailaddr"`
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,mailaddr"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput is a partial update, nil fields are left untouched
type UpdateUserInput struct {
	Name        *string       `json:"name" validate:"omitempty,min=2,max=100"`
	Email       *string       `json:"email" validate:"omitempty,mailaddr"`
	Password    *string       `json:"password" validate:"omitempty,password"`
	Username    *string       `json:"username" validate:"omitempty,min=3,max=32"`
	PhoneNumber *string       `json:"phone_number" validate:"omitempty,e164"`
	Gender      *model.Gender `json:"gender" validate:"omitempty,oneof=male female"`
}

type Tokens struct {
	Access  string
	Refresh string
}

type AuthOpts struct {
	OTPTTL time.Duration
	// Minimum time between two codes sent to the same address. Zero disables it.
	ResendCooldown time.Duration
}

// Auth runs the sign up, confirmation and sign in flows. Pending codes live
// in the cache keyed by email, users live in the store.
type Auth struct {
	users    *store.Users
	cache    cache.Cache
	notifier Notifier
	hasher   *security.Hasher
	tokens   *security.TokenIssuer
	opts     AuthOpts
}

func NewAuth(u *store.Users, c cache.Cache, n Notifier, h *security.Hasher, t *security.TokenIssuer, o AuthOpts) *Auth {
	return &Auth{
		users:    u,
		cache:    c,
		notifier: n,
		hasher:   h,
		tokens:   t,
		opts:     o,
	}
}

func cooldownKey(email string) string {
	return "cooldown:" + email
}

// SignUp creates the account and sends it a verification code
func (a *Auth) SignUp(ctx context.Context, in SignUpInput) error {
	_, err := a.users.ByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return newErr(KindConflict, "User with email %s already exists", in.Email)
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("failed to look up user, %w", err)
	}

	hash, err := a.hasher.GenerateFromPassword(in.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	u := &model.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		Username:    in.Username,
		PhoneNumber: in.PhoneNumber,
		Gender:      in.Gender,
	}

	if err := a.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return newErr(KindConflict, msgDuplicateUser)
		}

		return err
	}

	zap.L().Debug("User created", zap.Uint("userID", u.ID))

	return a.issueOTP(ctx, in.Email)
}

// ConfirmOTP checks code against the pending code for email. A matching code
// isn't consumed and can be confirmed again until it expires.
func (a *Auth) ConfirmOTP(ctx context.Context, in ConfirmOTPInput) error {
	if err := a.mustExist(ctx, in.Email); err != nil {
		return err
	}

	stored, err := a.cache.Get(ctx, in.Email)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return newErr(KindBadRequest, msgIncorrectOTP)
		}

		return fmt.Errorf("failed to read otp, %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(in.OTP)) != 1 {
		return newErr(KindBadRequest, msgIncorrectOTP)
	}

	return nil
}

// ResendOTP replaces the pending code of an existing user with a fresh one
func (a *Auth) ResendOTP(ctx context.Context, in ResendOTPInput) error {
	if err := a.mustExist(ctx, in.Email); err != nil {
		return err
	}

	if a.opts.ResendCooldown > 0 {
		_, err := a.cache.Get(ctx, cooldownKey(in.Email))
		switch {
		case err == nil:
			return newErr(KindTooManyRequests, "Please wait before requesting another otp")
		case !errors.Is(err, cache.ErrMiss):
			return fmt.Errorf("failed to read otp cooldown, %w", err)
		}
	}

	return a.issueOTP(ctx, in.Email)
}

func (a *Auth) mustExist(ctx context.Context, email string) error {
	_, err := a.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newErr(KindBadRequest, "User with email %s does not exist", email)
		}

		return fmt.Errorf("failed to look up user, %w", err)
	}

	return nil
}

// issueOTP stores a new code, overwriting any previous one, and sends it.
// The code is stored first so it is already valid when the mail arrives.
func (a *Auth) issueOTP(ctx context.Context, email string) error {
	otp, err := security.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp, %w", err)
	}

	if err := a.cache.Set(ctx, email, otp, a.opts.OTPTTL); err != nil {
		return fmt.Errorf("failed to store otp, %w", err)
	}

	if a.opts.ResendCooldown > 0 {
		if err := a.cache.Set(ctx, cooldownKey(email), "1", a.opts.ResendCooldown); err != nil {
			return fmt.Errorf("failed to store otp cooldown, %w", err)
		}
	}

	if err := a.notifier.SendOTP(ctx, email, otp); err != nil {
		return fmt.Errorf("failed to send otp, %w", err)
	}

	return nil
}

// SignIn doesn't tell an unknown email apart from a wrong password
func (a *Auth) SignIn(ctx context.Context, in SignInInput) (*Tokens, error) {
	u, err := a.users.ByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newErr(KindBadRequest, msgBadCredentials)
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := a.hasher.VerifyPasswd(in.Password, u.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, newErr(KindBadRequest, msgBadCredentials)
	}

	p := security.Payload{ID: u.ID, Role: u.Role}

	access, err := a.tokens.IssueAccess(p)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token, %w", err)
	}

	refresh, err := a.tokens.IssueRefresh(p)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token, %w", err)
	}

	return &Tokens{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The role is
// read again so role changes apply without signing in again.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", newErr(KindUnauthorized, "Token not found")
	}

	p, err := a.tokens.Verify(refreshToken, security.RefreshToken)
	if err != nil {
		return "", &Error{Kind: KindUnauthorized, Msg: "Token expired or invalid", Err: err}
	}

	u, err := a.users.ByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", newErr(KindUnauthorized, "User not found")
		}

		return "", fmt.Errorf("failed to look up user, %w", err)
	}

	access, err := a.tokens.IssueAccess(security.Payload{ID: u.ID, Role: u.Role})
	if err != nil {
		return "", fmt.Errorf("failed to issue access token, %w", err)
	}

	return access, nil
}

func (a *Auth) Profile(ctx context.Context, id uint) (*model.Profile, error) {
	u, err := a.users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newErr(KindNotFound, "User not found")
		}

		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &model.Profile{Name: u.Name, Email: u.Email}, nil
}

func authorize(actor security.Payload, id uint) error {
	if actor.ID != id && actor.Role != model.RoleAdmin {
		return newErr(KindForbidden, "You are not allowed to modify this user")
	}

	return nil
}

func (a *Auth) UpdateUser(ctx context.Context, actor security.Payload, id uint, in UpdateUserInput) (*model.User, error) {
	if err := authorize(actor, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Username != nil {
		fields["username"] = *in.Username
	}
	if in.PhoneNumber != nil {
		fields["phone_number"] = *in.PhoneNumber
	}
	if in.Gender != nil {
		fields["gender"] = *in.Gender
	}
	if in.Password != nil {
		hash, err := a.hasher.GenerateFromPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password, %w", err)
		}

		fields["password"] = hash
	}

	if len(fields) == 0 {
		return nil, newErr(KindBadRequest, "Nothing to update")
	}

	err := a.users.Update(ctx, id, fields)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, newErr(KindNotFound, "User with ID %d not found", id)
	case errors.Is(err, store.ErrDuplicate):
		return nil, newErr(KindConflict, msgDuplicateUser)
	case err != nil:
		return nil, fmt.Errorf("failed to update user, %w", err)
	}

	u, err := a.users.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated user, %w", err)
	}

	return u, nil
}

func (a *Auth) DeleteUser(ctx context.Context, actor security.Payload, id uint) error {
	if err := authorize(actor, id); err != nil {
		return err
	}

	err := a.users.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newErr(KindNotFound, "User with ID %d not found", id)
		}

		return fmt.Errorf("failed to delete user, %w", err)
	}

	return nil
}
