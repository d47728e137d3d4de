package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/language"

	i18nDomain "github.com/koliving/api/internal/i18n/domain"
	i18nService "github.com/koliving/api/internal/i18n/service"
)

// RunSetMessage stores a message override for one locale. Overrides take
// effect on the next request when I18N_DB_OVERRIDES is enabled.
func RunSetMessage(
	ctx context.Context,
	repo i18nService.MessageRepository,
	logger *slog.Logger,
	w io.Writer,
	locale string,
	key string,
	pattern string,
) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	base, _ := tag.Base()

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("message key is required")
	}
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("message pattern is required")
	}

	message := &i18nDomain.Message{
		Locale:    base.String(),
		Key:       key,
		Pattern:   pattern,
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, message); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Message %s stored for locale %s\n", message.Key, message.Locale)
	logger.Info("message override stored",
		slog.String("locale", message.Locale),
		slog.String("key", message.Key),
	)
	return nil
}
