package usecase

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrWrongLoginMethod   = errors.New("account has no password, use OAuth login")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidInput       = errors.New("invalid input")
	ErrProviderConflict   = errors.New("provider account linked to another user")
	ErrEntryNotFound      = errors.New("journal entry not found")
)

// PasswordPolicyError lists every composition rule a password broke.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet security requirements"
}
