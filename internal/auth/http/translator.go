package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"
	"golang.org/x/text/language"

	authDomain "github.com/koliving/api/internal/auth/domain"
	apperrors "github.com/koliving/api/internal/errors"
	"github.com/koliving/api/internal/httputil"
)

// Message keys and codes of errors that carry no auth kind.
const (
	internalMessageKey         = "error.internal"
	logoutMessageKey           = "auth.logout_success"
	validationFieldsMessageKey = "auth.validation_failed_fields"
)

// errorMapping is the response contract of one error kind.
type errorMapping struct {
	Status     int
	Code       string
	MessageKey string
}

// errorTable maps every kind to its status, stable code and message key.
var errorTable = map[authDomain.ErrorKind]errorMapping{
	authDomain.KindMissingToken:          {http.StatusUnauthorized, "0008", "auth.unauthorized"},
	authDomain.KindInsufficientRole:      {http.StatusForbidden, "0009", "auth.forbidden"},
	authDomain.KindUnknownPrincipal:      {http.StatusUnauthorized, "0010", "auth.user_not_found"},
	authDomain.KindInvalidCredentials:    {http.StatusUnauthorized, "0011", "auth.bad_credentials"},
	authDomain.KindTokenMalformed:        {http.StatusUnauthorized, "0012", "auth.token_malformed"},
	authDomain.KindTokenSignatureInvalid: {http.StatusUnauthorized, "0013", "auth.token_signature_invalid"},
	authDomain.KindTokenExpired:          {http.StatusUnauthorized, "0014", "auth.token_expired"},
	authDomain.KindValidationFailed:      {http.StatusBadRequest, "0015", "auth.validation_failed"},
	authDomain.KindTooManyAttempts:       {http.StatusTooManyRequests, "0016", "auth.too_many_attempts"},
}

var internalMapping = errorMapping{http.StatusInternalServerError, httputil.CodeInternal, internalMessageKey}

// mappingFor returns the response contract for err. Untyped errors map to 500.
func mappingFor(err error) (errorMapping, authDomain.ErrorKind, bool) {
	kind, ok := authDomain.KindOf(err)
	if !ok {
		return internalMapping, 0, false
	}
	mapping, ok := errorTable[kind]
	if !ok {
		return internalMapping, kind, false
	}
	return mapping, kind, true
}

// MessageSource resolves localized messages.
type MessageSource interface {
	Message(ctx context.Context, locale language.Tag, key string, args ...any) string
}

// LocaleResolver picks the response locale of a request.
type LocaleResolver interface {
	Resolve(r *http.Request) language.Tag
}

// ErrorTranslator turns pipeline failures into localized {code, message}
// responses. It writes at most one response per request.
type ErrorTranslator struct {
	messages MessageSource
	locales  LocaleResolver
	logger   *slog.Logger
}

// NewErrorTranslator creates an ErrorTranslator.
func NewErrorTranslator(messages MessageSource, locales LocaleResolver, logger *slog.Logger) *ErrorTranslator {
	return &ErrorTranslator{
		messages: messages,
		locales:  locales,
		logger:   logger,
	}
}

// Message resolves key in the locale of the current request.
func (t *ErrorTranslator) Message(c *gin.Context, key string, args ...any) string {
	return t.messages.Message(c.Request.Context(), t.locales.Resolve(c.Request), key, args...)
}

// Translate writes the response for err and aborts the handler chain. Typed
// auth errors use the error table; anything else becomes a generic 500 with
// the cause kept in the log. Nothing is written when a response is already
// committed or the client has gone away.
func (t *ErrorTranslator) Translate(c *gin.Context, err error) {
	c.Abort()

	if c.Writer.Written() {
		t.logger.Warn("response already committed, dropping error", slog.Any("error", err))
		return
	}
	if c.Request.Context().Err() != nil {
		t.logger.Debug("request cancelled before error response", slog.Any("error", err))
		return
	}

	mapping, kind, typed := mappingFor(err)

	messageKey := mapping.MessageKey
	var args []any
	switch kind {
	case authDomain.KindValidationFailed:
		if fields := invalidFields(err); fields != "" {
			messageKey = validationFieldsMessageKey
			args = append(args, fields)
		}
	case authDomain.KindTooManyAttempts:
		retryAfter := c.Writer.Header().Get("Retry-After")
		if retryAfter == "" {
			retryAfter = "1"
		}
		args = append(args, retryAfter)
	}

	if typed {
		t.logger.Debug("authentication rejected",
			slog.String("kind", kind.String()),
			slog.Int("status_code", mapping.Status),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err))
	} else {
		t.logger.Error("request failed",
			slog.Int("status_code", mapping.Status),
			slog.String("error_code", mapping.Code),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err))
	}

	c.JSON(mapping.Status, httputil.ErrorResponse{
		Code:    mapping.Code,
		Message: t.Message(c, messageKey, args...),
	})
}

// Recover converts a panic raised while the pipeline runs into a 500
// response. It must be deferred.
func (t *ErrorTranslator) Recover(c *gin.Context) {
	if r := recover(); r != nil {
		t.Translate(c, fmt.Errorf("panic: %v", r))
	}
}

// invalidFields lists the request fields named by a validation failure.
// Rule text is English and decoder errors name Go types, so neither reaches
// the client.
func invalidFields(err error) string {
	var fieldErrs validation.Errors
	if !apperrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ""
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return strings.Join(fields, ", ")
}
