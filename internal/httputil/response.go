// Package httputil provides HTTP helpers shared by the business handlers.
package httputil

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/koliving/api/internal/errors"
)

// Stable error codes returned in the code field of every error body.
const (
	CodeRecordNotExist = "0001"
	CodeUnauthorized   = "0008"
	CodeForbidden      = "0009"
	CodeBadRequest     = "0015"
	CodeConflict       = "0017"
	CodeInternal       = "9999"
)

// ErrorResponse is the error body shared by the business handlers and the
// authentication pipeline.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON error body.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var resp ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		resp = ErrorResponse{Code: CodeRecordNotExist, Message: "The requested record does not exist"}

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		resp = ErrorResponse{Code: CodeConflict, Message: "A conflict occurred with existing data"}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		resp = ErrorResponse{Code: CodeBadRequest, Message: invalidInputMessage(err)}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		resp = ErrorResponse{Code: CodeUnauthorized, Message: "Authentication is required"}

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		resp = ErrorResponse{Code: CodeForbidden, Message: "You don't have permission to access this resource"}

	default:
		// internal details stay in the log
		statusCode = http.StatusInternalServerError
		resp = ErrorResponse{Code: CodeInternal, Message: "An internal error occurred"}
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", resp.Code),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, resp)
}

// invalidInputMessage returns the validation detail of err without the
// trailing sentinel text added by apperrors.Wrap.
func invalidInputMessage(err error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+apperrors.ErrInvalidInput.Error())
	if msg == apperrors.ErrInvalidInput.Error() {
		return "The request is invalid"
	}
	return msg
}

// HandleMalformedBodyGin writes a 400 response for a body that could not be
// decoded. Decoder errors name Go types, so they are only logged.
func HandleMalformedBodyGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("malformed request body", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: "The request body is malformed"})
}

// HandleBadRequestGin writes a 400 response for malformed JSON or query parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: err.Error()})
}
