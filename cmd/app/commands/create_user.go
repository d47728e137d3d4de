package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	authDomain "github.com/koliving/api/internal/auth/domain"
	userDomain "github.com/koliving/api/internal/user/domain"
	userUseCase "github.com/koliving/api/internal/user/usecase"
)

// createdUser is the JSON output of create-user.
type createdUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// RunCreateUser registers an account from the command line. It is the only
// way to create ADMIN accounts since signup always grants USER. The password
// is prompted for when empty so it stays out of shell history.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UseCase,
	logger *slog.Logger,
	name string,
	email string,
	password string,
	roles []string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if password == "" {
		var err error
		password, err = promptLine(io, "Password: ")
		if err != nil {
			return err
		}
	}

	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		normalized = append(normalized, strings.ToUpper(strings.TrimSpace(role)))
	}

	logger.Info("creating user", slog.String("email", email), slog.Any("roles", normalized))

	user, err := users.RegisterUser(ctx, userUseCase.RegisterUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Roles:    normalized,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user created", slog.String("user_id", user.ID.String()))

	if format == "json" {
		return writeJSON(io.Writer, toCreatedUser(user))
	}
	writeUserText(io.Writer, user)
	return nil
}

func toCreatedUser(user *userDomain.User) createdUser {
	return createdUser{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Roles:     roleNames(user.Roles),
		CreatedAt: user.CreatedAt,
	}
}

func writeUserText(w io.Writer, user *userDomain.User) {
	_, _ = fmt.Fprintln(w, "User created successfully")
	_, _ = fmt.Fprintf(w, "ID:    %s\n", user.ID)
	_, _ = fmt.Fprintf(w, "Name:  %s\n", user.Name)
	_, _ = fmt.Fprintf(w, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(w, "Roles: %s\n", strings.Join(roleNames(user.Roles), ", "))
}

func roleNames(roles []authDomain.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
