package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/koliving/api/internal/auth/domain"
	apperrors "github.com/koliving/api/internal/errors"
	"github.com/koliving/api/internal/user/domain"
)

// MockTxManager is a mock implementation of database.TxManager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

// MockPasswordService is a mock implementation of authService.PasswordService
type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) ComparePassword(plain, hashed string) bool {
	args := m.Called(plain, hashed)
	return args.Bool(0)
}

func setupUseCase() (UseCase, *MockTxManager, *MockUserRepository, *MockPasswordService) {
	txManager := &MockTxManager{}
	userRepo := &MockUserRepository{}
	passwordService := &MockPasswordService{}
	return NewUserUseCase(txManager, userRepo, passwordService), txManager, userRepo, passwordService
}

func TestUserUseCase_RegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DefaultsToUserRole", func(t *testing.T) {
		uc, txManager, userRepo, passwordService := setupUseCase()

		passwordService.On("HashPassword", "KolivingPwd12").Return("hashed", nil)
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByEmail", ctx, "test@koliving.com").Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "test@koliving.com" && u.Password == "hashed"
		})).Return(nil)

		user, err := uc.RegisterUser(ctx, RegisterUserInput{
			Name:     "  Koliving Tester ",
			Email:    " Test@Koliving.com",
			Password: "KolivingPwd12",
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "Koliving Tester", user.Name)
		assert.Equal(t, "test@koliving.com", user.Email)
		assert.Equal(t, []authDomain.Role{authDomain.RoleUser}, user.Roles)
		assert.False(t, user.CreatedAt.IsZero())
		userRepo.AssertExpectations(t)
		passwordService.AssertExpectations(t)
	})

	t.Run("Success_ExplicitRoles", func(t *testing.T) {
		uc, txManager, userRepo, passwordService := setupUseCase()

		passwordService.On("HashPassword", "KolivingPwd12").Return("hashed", nil)
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByEmail", ctx, "admin@koliving.com").Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", ctx, mock.Anything).Return(nil)

		user, err := uc.RegisterUser(ctx, RegisterUserInput{
			Name:     "Admin",
			Email:    "admin@koliving.com",
			Password: "KolivingPwd12",
			Roles:    []string{"ADMIN", "USER"},
		})

		require.NoError(t, err)
		assert.Equal(t, []authDomain.Role{authDomain.RoleAdmin, authDomain.RoleUser}, user.Roles)
	})

	t.Run("Error_ValidationFailed", func(t *testing.T) {
		uc, _, userRepo, passwordService := setupUseCase()

		tests := []RegisterUserInput{
			{Name: "", Email: "test@koliving.com", Password: "KolivingPwd12"},
			{Name: "Tester", Email: "not-an-email", Password: "KolivingPwd12"},
			{Name: "Tester", Email: "test@koliving.com", Password: "short"},
			{Name: "Tester", Email: "test@koliving.com", Password: "onlyletters"},
			{Name: "Tester", Email: "test@koliving.com", Password: "KolivingPwd12", Roles: []string{"ROOT"}},
		}
		for _, input := range tests {
			user, err := uc.RegisterUser(ctx, input)
			assert.Nil(t, user)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput), "input %+v: %v", input, err)
		}

		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		passwordService.AssertNotCalled(t, "HashPassword", mock.Anything)
	})

	t.Run("Error_EmailAlreadyRegistered", func(t *testing.T) {
		uc, txManager, userRepo, passwordService := setupUseCase()

		passwordService.On("HashPassword", "KolivingPwd12").Return("hashed", nil)
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByEmail", ctx, "test@koliving.com").Return(&domain.User{}, nil)

		user, err := uc.RegisterUser(ctx, RegisterUserInput{
			Name:     "Tester",
			Email:    "test@koliving.com",
			Password: "KolivingPwd12",
		})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_LookupFailure", func(t *testing.T) {
		uc, txManager, userRepo, passwordService := setupUseCase()
		dbErr := errors.New("connection refused")

		passwordService.On("HashPassword", "KolivingPwd12").Return("hashed", nil)
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByEmail", ctx, "test@koliving.com").Return(nil, dbErr)

		_, err := uc.RegisterUser(ctx, RegisterUserInput{
			Name:     "Tester",
			Email:    "test@koliving.com",
			Password: "KolivingPwd12",
		})

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Error_HashFailure", func(t *testing.T) {
		uc, _, _, passwordService := setupUseCase()
		hashErr := errors.New("out of memory")

		passwordService.On("HashPassword", "KolivingPwd12").Return("", hashErr)

		_, err := uc.RegisterUser(ctx, RegisterUserInput{
			Name:     "Tester",
			Email:    "test@koliving.com",
			Password: "KolivingPwd12",
		})

		assert.ErrorIs(t, err, hashErr)
	})
}

func TestUserUseCase_LoadUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NormalizesEmail", func(t *testing.T) {
		uc, _, userRepo, _ := setupUseCase()
		expected := &domain.User{Email: "test@koliving.com"}
		userRepo.On("GetByEmail", ctx, "test@koliving.com").Return(expected, nil)

		user, err := uc.LoadUserByEmail(ctx, "  TEST@koliving.com ")

		require.NoError(t, err)
		assert.Same(t, expected, user)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, _, userRepo, _ := setupUseCase()
		userRepo.On("GetByEmail", ctx, "ghost@koliving.com").Return(nil, domain.ErrUserNotFound)

		user, err := uc.LoadUserByEmail(ctx, "ghost@koliving.com")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserUseCase_IsEqualPassword(t *testing.T) {
	uc, _, _, passwordService := setupUseCase()
	passwordService.On("ComparePassword", "KolivingPwd12", "hashed").Return(true)
	passwordService.On("ComparePassword", "wrong", "hashed").Return(false)

	assert.True(t, uc.IsEqualPassword("KolivingPwd12", "hashed"))
	assert.False(t, uc.IsEqualPassword("wrong", "hashed"))
}

func TestUserUseCase_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_GetUserByID", func(t *testing.T) {
		uc, _, userRepo, _ := setupUseCase()
		id := uuid.Must(uuid.NewV7())
		expected := &domain.User{ID: id}
		userRepo.On("GetByID", ctx, id).Return(expected, nil)

		user, err := uc.GetUserByID(ctx, id)
		require.NoError(t, err)
		assert.Same(t, expected, user)
	})

	t.Run("Success_ListUsers", func(t *testing.T) {
		uc, _, userRepo, _ := setupUseCase()
		expected := []*domain.User{{Email: "a@koliving.com"}, {Email: "b@koliving.com"}}
		userRepo.On("List", ctx, 20, 10).Return(expected, nil)

		users, err := uc.ListUsers(ctx, 20, 10)
		require.NoError(t, err)
		assert.Equal(t, expected, users)
	})
}
