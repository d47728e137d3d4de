// Package service resolves request locales and localized messages.
package service

import (
	"context"

	"golang.org/x/text/language"

	i18nDomain "github.com/koliving/api/internal/i18n/domain"
)

// MessageSource resolves a message key for a locale. Implementations never
// fail: an unknown key resolves to the key itself.
type MessageSource interface {
	Message(ctx context.Context, locale language.Tag, key string, args ...any) string
}

// MessageRepository stores per-locale message overrides.
type MessageRepository interface {
	Get(ctx context.Context, locale, key string) (*i18nDomain.Message, error)
	Upsert(ctx context.Context, message *i18nDomain.Message) error
}
