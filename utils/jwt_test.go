package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(now time.Time) *TokenService {
	s := NewTokenService("access-secret", "reset-secret")
	s.now = func() time.Time { return now }
	return s
}

func TestAccessToken(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService(issued)

	token, err := s.GenerateAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	claims, err := s.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, issued.Add(7*24*time.Hour), claims.ExpiresAt.Time.UTC())

	s.now = func() time.Time { return issued.Add(AccessTokenTTL - time.Minute) }
	_, err = s.ParseAccessToken(token)
	assert.NoError(t, err)

	s.now = func() time.Time { return issued.Add(AccessTokenTTL + time.Second) }
	_, err = s.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestResetToken(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService(issued)

	token, err := s.GenerateResetToken("user-1", "$2a$10$hash")
	require.NoError(t, err)

	claims, err := s.ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, PasswordFingerprint("$2a$10$hash"), claims.PasswordVersion)

	s.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = s.ParseResetToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenSecretsAreNotInterchangeable(t *testing.T) {
	s := newTestTokenService(time.Now())

	reset, err := s.GenerateResetToken("user-1", "hash")
	require.NoError(t, err)
	_, err = s.ParseAccessToken(reset)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	access, err := s.GenerateAccessToken("user-1", "a@x.com")
	require.NoError(t, err)
	_, err = s.ParseResetToken(access)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	other := NewTokenService("another-secret", "reset-secret")
	_, err = other.ParseAccessToken(access)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyTokenRejects(t *testing.T) {
	secret := []byte("access-secret")
	now := time.Now()

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u"}).SignedString(secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{
		UserID:           "u",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "missing exp", token: noExpiry},
		{name: "unexpected algorithm", token: hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyToken(tt.token, secret, &AccessClaims{}, func() time.Time { return now })
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestPasswordFingerprint(t *testing.T) {
	a := PasswordFingerprint("hash-a")
	assert.Len(t, a, 16)
	assert.Equal(t, a, PasswordFingerprint("hash-a"))
	assert.NotEqual(t, a, PasswordFingerprint("hash-b"))
}
