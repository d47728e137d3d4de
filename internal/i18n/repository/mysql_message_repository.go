package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/koliving/api/internal/database"
	i18nDomain "github.com/koliving/api/internal/i18n/domain"

	apperrors "github.com/koliving/api/internal/errors"
)

// MySQLMessageRepository reads and writes the languages table in MySQL.
type MySQLMessageRepository struct {
	db *sql.DB
}

// NewMySQLMessageRepository creates a new MySQLMessageRepository.
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

// Get returns the override for locale and key.
func (r *MySQLMessageRepository) Get(ctx context.Context, locale, key string) (*i18nDomain.Message, error) {
	var message i18nDomain.Message
	querier := database.GetTx(ctx, r.db)

	query := `SELECT locale, message_key, message_pattern, updated_at
			  FROM languages WHERE locale = ? AND message_key = ?`

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
func (r *MySQLMessageRepository) Upsert(ctx context.Context, message *i18nDomain.Message) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO languages (locale, message_key, message_pattern, updated_at)
			  VALUES (?, ?, ?, NOW())
			  ON DUPLICATE KEY UPDATE message_pattern = VALUES(message_pattern), updated_at = NOW()`

	if _, err := querier.ExecContext(ctx, query, message.Locale, message.Key, message.Pattern); err != nil {
		return apperrors.Wrap(err, "failed to upsert message")
	}
	return nil
}
