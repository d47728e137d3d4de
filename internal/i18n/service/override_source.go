package service

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	apperrors "github.com/koliving/api/internal/errors"
)

// overrideSource serves message patterns stored in the database and falls
// back to another source when none is stored or the lookup fails.
type overrideSource struct {
	repo     MessageRepository
	fallback MessageSource
	logger   *slog.Logger
}

// NewOverrideSource creates a MessageSource that prefers repository overrides.
func NewOverrideSource(repo MessageRepository, fallback MessageSource, logger *slog.Logger) MessageSource {
	return &overrideSource{repo: repo, fallback: fallback, logger: logger}
}

func (s *overrideSource) Message(ctx context.Context, locale language.Tag, key string, args ...any) string {
	message, err := s.repo.Get(ctx, baseOf(locale), key)
	if err == nil {
		return Format(message.Pattern, args...)
	}

	if !apperrors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("message override lookup failed",
			slog.String("locale", locale.String()),
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
	return s.fallback.Message(ctx, locale, key, args...)
}
