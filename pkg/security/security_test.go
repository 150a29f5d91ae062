package security

import (
	"bitwise74/account-api/internal/model"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testIssuer(accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return NewTokenIssuer(TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     accessTTL,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    refreshTTL,
	})
}

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(bcrypt.MinCost)

	hash, err := h.GenerateFromPassword("Password123")
	require.NoError(t, err)
	assert.NotEqual(t, "Password123", hash)

	ok, err := h.VerifyPasswd("Password123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPasswd("password123", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltedAndCost(t *testing.T) {
	t.Parallel()

	h := NewHasher(0)
	assert.Equal(t, DefaultCost, h.Cost)

	h = NewHasher(bcrypt.MinCost)
	a, err := h.GenerateFromPassword("same")
	require.NoError(t, err)
	b, err := h.GenerateFromPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	cost, err := bcrypt.Cost([]byte(a))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHasher_BrokenHash(t *testing.T) {
	t.Parallel()

	ok, err := NewHasher(bcrypt.MinCost).VerifyPasswd("x", "not-a-hash")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	t.Parallel()

	seen := map[string]struct{}{}
	for range 200 {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, OTPLength)
		for _, r := range otp {
			require.True(t, r >= '0' && r <= '9', "non digit in %q", otp)
		}
		seen[otp] = struct{}{}
	}

	// 200 draws out of a million values should practically never collide much
	assert.Greater(t, len(seen), 190)
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	t.Parallel()

	ti := testIssuer(time.Minute, time.Hour)
	p := Payload{ID: 7, Role: model.RoleAdmin}

	tok, err := ti.IssueAccess(p)
	require.NoError(t, err)

	got, err := ti.Verify(tok, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestTokenIssuer_RefreshRoundTrip(t *testing.T) {
	t.Parallel()

	ti := testIssuer(time.Minute, time.Hour)
	p := Payload{ID: 3, Role: model.RoleUser}

	tok, err := ti.IssueRefresh(p)
	require.NoError(t, err)

	got, err := ti.Verify(tok, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestTokenIssuer_KindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	ti := testIssuer(time.Minute, time.Hour)
	p := Payload{ID: 1, Role: model.RoleUser}

	refresh, err := ti.IssueRefresh(p)
	require.NoError(t, err)
	_, err = ti.Verify(refresh, AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	access, err := ti.IssueAccess(p)
	require.NoError(t, err)
	_, err = ti.Verify(access, RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	ti := testIssuer(-time.Second, time.Hour)

	tok, err := ti.IssueAccess(Payload{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	_, err = ti.Verify(tok, AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := testIssuer(time.Minute, time.Hour).IssueAccess(Payload{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	other := NewTokenIssuer(TokenConfig{AccessSecret: "other", AccessTTL: time.Minute, RefreshSecret: "x", RefreshTTL: time.Hour})
	_, err = other.Verify(tok, AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":   1,
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testIssuer(time.Minute, time.Hour).Verify(s, AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Malformed(t *testing.T) {
	t.Parallel()

	ti := testIssuer(time.Minute, time.Hour)

	for _, s := range []string{"", "not.a.jwt", strings.Repeat("a", 40)} {
		_, err := ti.Verify(s, AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", s)
	}
}
