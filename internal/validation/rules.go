// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/koliving/api/internal/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex.
var Email = validation.NewStringRuleWithError(
	emailRegex.MatchString,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
