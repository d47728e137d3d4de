package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/koliving/api/internal/database"
	"github.com/koliving/api/internal/user/domain"

	apperrors "github.com/koliving/api/internal/errors"
)

// MySQLUserRepository handles user persistence for MySQL. IDs are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	uuidBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	roles, err := encodeRoles(user.Roles)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, name, email, password, roles, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx, query, uuidBytes, user.Name, user.Email, user.Password, roles, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.getOne(ctx, "failed to get user by id", query, uuidBytes)
}

// GetByEmail retrieves a user by email.
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.getOne(ctx, "failed to get user by email", query, email)
}

// List returns users ordered by creation time.
func (r *MySQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanMySQLUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	return users, nil
}

func (r *MySQLUserRepository) getOne(
	ctx context.Context,
	failure string,
	query string,
	arg any,
) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	user, err := scanMySQLUser(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, failure)
	}
	return user, nil
}

func scanMySQLUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var idBytes, roles []byte

	err := row.Scan(
		&idBytes, &user.Name, &user.Email, &user.Password, &roles, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if user.Roles, err = decodeRoles(roles); err != nil {
		return nil, err
	}
	return &user, nil
}
