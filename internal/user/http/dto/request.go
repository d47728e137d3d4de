// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/koliving/api/internal/user/usecase"
	appValidation "github.com/koliving/api/internal/validation"
)

// SignupRequest represents the API request for self registration.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request body field
}

// Validate checks the request shape. Password pattern rules are enforced by
// the use case.
func (r *SignupRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), appValidation.NotBlank),
		validation.Field(&r.Email, validation.Required.Error("email is required"), appValidation.Email),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
	return appValidation.WrapValidationError(err)
}

// ToRegisterUserInput converts the request into use case input. Self
// registration never grants roles beyond USER.
func ToRegisterUserInput(r SignupRequest) usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}
