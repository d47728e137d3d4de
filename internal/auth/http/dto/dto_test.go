package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/koliving/api/internal/auth/domain"
)

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request LoginRequest
		wantErr bool
	}{
		{name: "Success", request: LoginRequest{Email: "test@koliving.com", Password: "KolivingPwd12"}},
		{name: "Success_LegacyPassword", request: LoginRequest{Email: "test@koliving.com", Password: "abc"}},
		{name: "Error_MissingEmail", request: LoginRequest{Password: "KolivingPwd12"}, wantErr: true},
		{name: "Error_InvalidEmail", request: LoginRequest{Email: "test", Password: "KolivingPwd12"}, wantErr: true},
		{name: "Error_MissingPassword", request: LoginRequest{Email: "test@koliving.com"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMapLoginResponse(t *testing.T) {
	principal := &authDomain.Principal{
		ID:    uuid.Must(uuid.NewV7()),
		Email: "test@koliving.com",
		Name:  "Koliving Tester",
		Roles: []authDomain.Role{authDomain.RoleAdmin},
	}
	expiresAt := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)

	response := MapLoginResponse(principal, &authDomain.Token{ExpiresAt: expiresAt, Raw: "secret.jwt.value"})

	assert.Equal(t, principal.ID, response.ID)
	assert.Equal(t, []string{"ADMIN"}, response.Roles)
	assert.Equal(t, expiresAt, response.ExpiresAt)
}
