package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/koliving/api/internal/errors"
	i18nDomain "github.com/koliving/api/internal/i18n/domain"
	"github.com/koliving/api/internal/testutil"
)

type messageRepository interface {
	Get(ctx context.Context, locale, key string) (*i18nDomain.Message, error)
	Upsert(ctx context.Context, message *i18nDomain.Message) error
}

func TestMessageRepositories(t *testing.T) {
	drivers := []struct {
		name        string
		newRepo     func(db *testutil.MockDB) messageRepository
		upsertQuery string
	}{
		{
			name:        "postgresql",
			newRepo:     func(m *testutil.MockDB) messageRepository { return NewPostgreSQLMessageRepository(m.DB) },
			upsertQuery: "ON CONFLICT \\(locale, message_key\\) DO UPDATE",
		},
		{
			name:        "mysql",
			newRepo:     func(m *testutil.MockDB) messageRepository { return NewMySQLMessageRepository(m.DB) },
			upsertQuery: "ON DUPLICATE KEY UPDATE",
		},
	}

	for _, driver := range drivers {
		t.Run(driver.name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Success_Get", func(t *testing.T) {
				m := testutil.NewMockDB(t)
				updatedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
				m.Mock.ExpectQuery("SELECT locale, message_key, message_pattern, updated_at FROM languages").
					WithArgs("ko", "auth.forbidden").
					WillReturnRows(sqlmock.NewRows([]string{"locale", "message_key", "message_pattern", "updated_at"}).
						AddRow("ko", "auth.forbidden", "권한 없음", updatedAt))

				message, err := driver.newRepo(m).Get(ctx, "ko", "auth.forbidden")
				require.NoError(t, err)
				assert.Equal(t, &i18nDomain.Message{
					Locale:    "ko",
					Key:       "auth.forbidden",
					Pattern:   "권한 없음",
					UpdatedAt: updatedAt,
				}, message)
			})

			t.Run("Error_NotFound", func(t *testing.T) {
				m := testutil.NewMockDB(t)
				m.Mock.ExpectQuery("FROM languages").
					WithArgs("en", "missing").
					WillReturnRows(sqlmock.NewRows([]string{"locale", "message_key", "message_pattern", "updated_at"}))

				_, err := driver.newRepo(m).Get(ctx, "en", "missing")
				assert.ErrorIs(t, err, i18nDomain.ErrMessageNotFound)
				assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
			})

			t.Run("Error_QueryFails", func(t *testing.T) {
				m := testutil.NewMockDB(t)
				m.Mock.ExpectQuery("FROM languages").WillReturnError(errors.New("connection reset"))

				_, err := driver.newRepo(m).Get(ctx, "en", "auth.forbidden")
				assert.ErrorContains(t, err, "failed to get message")
				assert.False(t, apperrors.Is(err, apperrors.ErrNotFound))
			})

			t.Run("Success_Upsert", func(t *testing.T) {
				m := testutil.NewMockDB(t)
				m.Mock.ExpectExec(driver.upsertQuery).
					WithArgs("en", "auth.forbidden", "Nope").
					WillReturnResult(sqlmock.NewResult(0, 1))

				err := driver.newRepo(m).Upsert(ctx, &i18nDomain.Message{
					Locale: "en", Key: "auth.forbidden", Pattern: "Nope",
				})
				assert.NoError(t, err)
			})
		})
	}
}
