package security

import (
	"fmt"
	"unicode"
)

// MinPasswordLength is the shortest password accepted for new credentials.
const MinPasswordLength = 8

// CheckPasswordPolicy enforces the minimum strength for new passwords:
// at least MinPasswordLength characters with one letter and one digit.
func CheckPasswordPolicy(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain a letter and a digit")
	}
	return nil
}
