package auth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldGeneral  = "general"

	MinPasswordLength = 6
	passwordSymbols   = `!@#$%^&*(),.?":{}|<>`
)

var (
	emailRegex     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
)

// ValidationError is a local, pre-flight rejection of user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return &ValidationError{
			Field:   FieldEmail,
			Message: "invalid email, check the format",
		}
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &ValidationError{
			Field:   FieldPassword,
			Message: fmt.Sprintf("password must be at least %d characters long", MinPasswordLength),
		}
	}
	if !uppercaseRegex.MatchString(password) {
		return &ValidationError{
			Field:   FieldPassword,
			Message: "add at least one uppercase letter",
		}
	}
	if !strings.ContainsAny(password, passwordSymbols) {
		return &ValidationError{
			Field:   FieldPassword,
			Message: "add at least one special character: " + passwordSymbols,
		}
	}
	return nil
}

// ValidateCredentials checks the email first, the password second.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}
