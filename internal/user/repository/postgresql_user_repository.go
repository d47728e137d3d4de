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

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	roles, err := encodeRoles(user.Roles)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, name, email, password, roles, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx, query, user.ID, user.Name, user.Email, user.Password, roles, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, "failed to get user by id", query, id)
}

// GetByEmail retrieves a user by email.
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, "failed to get user by email", query, email)
}

// List returns users ordered by creation time.
func (r *PostgreSQLUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanPostgreSQLUser(rows)
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

func (r *PostgreSQLUserRepository) getOne(
	ctx context.Context,
	failure string,
	query string,
	arg any,
) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	user, err := scanPostgreSQLUser(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, failure)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var roles []byte

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &roles, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if user.Roles, err = decodeRoles(roles); err != nil {
		return nil, err
	}
	return &user, nil
}
