// Package dto provides data transfer objects for the login and logout endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/koliving/api/internal/auth/domain"
	customValidation "github.com/koliving/api/internal/validation"
)

// LoginRequest is the credential payload of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request body field
}

// Validate checks that both fields are present and the email is well formed.
// The password pattern is not enforced at login so accounts created under an
// older pattern can still sign in.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Email,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(1, 255),
		),
	)
}

// ToCredentials converts the request into domain credentials.
func (r *LoginRequest) ToCredentials() authDomain.Credentials {
	return authDomain.Credentials{
		Email:    r.Email,
		Password: r.Password,
	}
}
