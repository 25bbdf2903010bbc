package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

const (
	AccessTokenTTL = 7 * 24 * time.Hour
	ResetTokenTTL  = 15 * time.Minute
)

type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ResetClaims identify the account only. PasswordVersion pins the token to the
// password hash that was current when it was issued.
type ResetClaims struct {
	UserID          string `json:"userId"`
	PasswordVersion string `json:"pwv"`
	jwt.RegisteredClaims
}

// TokenService signs session and reset tokens with separate secrets.
type TokenService struct {
	accessSecret []byte
	resetSecret  []byte
	now          func() time.Time
}

func NewTokenService(accessSecret, resetSecret string) *TokenService {
	return &TokenService{
		accessSecret: []byte(accessSecret),
		resetSecret:  []byte(resetSecret),
		now:          time.Now,
	}
}

func (s *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(claims, s.accessSecret)
}

func (s *TokenService) GenerateResetToken(userID, passwordHash string) (string, error) {
	now := s.now()
	claims := ResetClaims{
		UserID:          userID,
		PasswordVersion: PasswordFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return sign(claims, s.resetSecret)
}

func (s *TokenService) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := VerifyToken(tokenString, s.accessSecret, claims, s.now); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) ParseResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := VerifyToken(tokenString, s.resetSecret, claims, s.now); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyToken checks an HS256 token against secret and decodes it into claims.
// Every failure is reported as ErrExpiredToken or ErrInvalidSignature.
func VerifyToken(tokenString string, secret []byte, claims jwt.Claims, now func() time.Time) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !token.Valid {
		return ErrInvalidSignature
	}
	return nil
}

// PasswordFingerprint is a short digest of a password hash, safe to embed in a token.
func PasswordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
