// Package repository persists localized message overrides.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/koliving/api/internal/database"
	i18nDomain "github.com/koliving/api/internal/i18n/domain"

	apperrors "github.com/koliving/api/internal/errors"
)

// PostgreSQLMessageRepository reads and writes the languages table in PostgreSQL.
type PostgreSQLMessageRepository struct {
	db *sql.DB
}

// NewPostgreSQLMessageRepository creates a new PostgreSQLMessageRepository.
func NewPostgreSQLMessageRepository(db *sql.DB) *PostgreSQLMessageRepository {
	return &PostgreSQLMessageRepository{db: db}
}

// Get returns the override for locale and key.
func (r *PostgreSQLMessageRepository) Get(ctx context.Context, locale, key string) (*i18nDomain.Message, error) {
	var message i18nDomain.Message
	querier := database.GetTx(ctx, r.db)

	query := `SELECT locale, message_key, message_pattern, updated_at
			  FROM languages WHERE locale = $1 AND message_key = $2`

	err := querier.QueryRowContext(ctx, query, locale, key).Scan(
		&message.Locale, &message.Key, &message.Pattern, &message.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, i18nDomain.ErrMessageNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get message")
	}

	return &message, nil
}

// Upsert stores message, replacing any pattern for the same locale and key.
func (r *PostgreSQLMessageRepository) Upsert(ctx context.Context, message *i18nDomain.Message) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO languages (locale, message_key, message_pattern, updated_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (locale, message_key) DO UPDATE
			  SET message_pattern = EXCLUDED.message_pattern, updated_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, message.Locale, message.Key, message.Pattern); err != nil {
		return apperrors.Wrap(err, "failed to upsert message")
	}
	return nil
}
