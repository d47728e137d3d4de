package validation

import (
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"
)

const (
	passwordMinLength = 6
	passwordMaxLength = 30
)

// ErrPasswordPattern is returned when a password does not satisfy the
// account password pattern.
var ErrPasswordPattern = validation.NewError(
	"validation_password_pattern",
	"must be 6 to 30 characters and contain at least one letter and one digit",
)

// CheckPasswordPattern reports whether the trimmed password is 6 to 30
// characters long, contains a character in the 'A'..'z' range and a decimal
// digit, and has no line breaks. The range also admits [ \ ] ^ _ and the
// backtick, matching passwords accepted by the previous platform.
func CheckPasswordPattern(password string) error {
	password = strings.TrimSpace(password)

	n := utf8.RuneCountInString(password)
	if n < passwordMinLength || n > passwordMaxLength {
		return ErrPasswordPattern
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r == '\n' || r == '\r' || r == '\u0085' || r == '\u2028' || r == '\u2029':
			return ErrPasswordPattern
		case r >= 'A' && r <= 'z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return ErrPasswordPattern
	}
	return nil
}

// PasswordPattern adapts CheckPasswordPattern to a validation rule.
var PasswordPattern = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_type", "must be a string")
	}
	if s == "" {
		return nil // Required handles empty values
	}
	return CheckPasswordPattern(s)
})
