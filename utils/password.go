package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	PasswordSymbols   = `!@#$%^&*(),.?":{}|<>`
)

type PasswordValidation struct {
	Valid      bool
	Violations []string
}

// ValidatePassword checks every composition rule and reports all violations
// in a fixed order: length, uppercase, lowercase, digit, symbol.
func ValidatePassword(password string) PasswordValidation {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	var violations []string
	if utf8.RuneCountInString(password) < MinPasswordLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	if !upper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !lower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !digit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !symbol {
		violations = append(violations, "Password must contain at least one special character")
	}

	return PasswordValidation{Valid: len(violations) == 0, Violations: violations}
}
