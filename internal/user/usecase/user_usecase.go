// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/koliving/api/internal/auth/domain"
	authService "github.com/koliving/api/internal/auth/service"
	"github.com/koliving/api/internal/database"
	apperrors "github.com/koliving/api/internal/errors"
	"github.com/koliving/api/internal/user/domain"
	appValidation "github.com/koliving/api/internal/validation"
)

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string //nolint:gosec // plaintext only until hashed
	Roles    []string
}

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error)

	// LoadUserByEmail returns the stored account for a login attempt.
	// A missing account is domain.ErrUserNotFound.
	LoadUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// IsEqualPassword reports whether plain matches the stored hash.
	IsEqualPassword(plain, hashed string) bool
}

// UserRepository interface defines user repository operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, error)
}

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	passwordService authService.PasswordService
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	passwordService authService.PasswordService,
) UseCase {
	return &UserUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		passwordService: passwordService,
	}
}

func (uc *UserUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			appValidation.PasswordPattern,
		),
		validation.Field(&input.Roles,
			validation.Each(validation.By(func(value interface{}) error {
				name, _ := value.(string)
				if _, ok := authDomain.ParseRole(name); !ok {
					return validation.NewError("validation_role", "must be ADMIN or USER")
				}
				return nil
			})),
		),
	)
	return appValidation.WrapValidationError(err)
}

// normalizeEmail is applied on both write and lookup so logins are case insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser validates input, hashes the password and stores the user.
// Users registered without roles get USER.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	roles := []authDomain.Role{authDomain.RoleUser}
	if len(input.Roles) > 0 {
		roles = make([]authDomain.Role, 0, len(input.Roles))
		for _, name := range input.Roles {
			role, _ := authDomain.ParseRole(name)
			roles = append(roles, role)
		}
	}

	hashedPassword, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      strings.TrimSpace(input.Name),
		Email:     normalizeEmail(input.Email),
		Password:  hashedPassword,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.userRepo.GetByEmail(ctx, user.Email); err == nil {
			return domain.ErrUserAlreadyExists
		} else if !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetUserByEmail retrieves a user by email.
func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
}

// ListUsers returns a page of users.
func (uc *UserUseCase) ListUsers(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}

// LoadUserByEmail implements the credential lookup used at login.
func (uc *UserUseCase) LoadUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
}

// IsEqualPassword delegates to the password service.
func (uc *UserUseCase) IsEqualPassword(plain, hashed string) bool {
	return uc.passwordService.ComparePassword(plain, hashed)
}
