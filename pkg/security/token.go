package security

import (
	"bitwise74/account-api/internal/model"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}

	return "access"
}

// Payload is what gets signed into both token kinds
type Payload struct {
	ID   uint       `json:"id"`
	Role model.Role `json:"role"`
}

type claims struct {
	Payload
	jwt.RegisteredClaims
}

type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

type signer struct {
	secret []byte
	ttl    time.Duration
}

// TokenIssuer signs and verifies stateless HS256 tokens. Nothing is stored
// server side, a token stays valid until it expires.
type TokenIssuer struct {
	signers map[TokenKind]signer
}

func NewTokenIssuer(c TokenConfig) *TokenIssuer {
	return &TokenIssuer{
		signers: map[TokenKind]signer{
			AccessToken:  {secret: []byte(c.AccessSecret), ttl: c.AccessTTL},
			RefreshToken: {secret: []byte(c.RefreshSecret), ttl: c.RefreshTTL},
		},
	}
}

func (t *TokenIssuer) IssueAccess(p Payload) (string, error) {
	return t.issue(p, AccessToken)
}

func (t *TokenIssuer) IssueRefresh(p Payload) (string, error) {
	return t.issue(p, RefreshToken)
}

func (t *TokenIssuer) issue(p Payload, kind TokenKind) (string, error) {
	s := t.signers[kind]
	now := time.Now()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token, %w", kind, err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of tokenStr against the secret of kind
// and returns the decoded payload. All failures wrap ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenStr string, kind TokenKind) (*Payload, error) {
	s := t.signers[kind]
	c := &claims{}

	token, err := jwt.ParseWithClaims(tokenStr, c, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &c.Payload, nil
}
