// Package domain defines localized message overrides.
package domain

import (
	"time"

	"github.com/koliving/api/internal/errors"
)

// Message is a message pattern stored for one locale. Patterns use {0}, {1}
// placeholders for positional arguments.
type Message struct {
	Locale    string
	Key       string
	Pattern   string
	UpdatedAt time.Time
}

// ErrMessageNotFound indicates no override exists for a locale and key.
var ErrMessageNotFound = errors.Wrap(errors.ErrNotFound, "message not found")
