package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/koliving/api/internal/auth/domain"
	"github.com/koliving/api/internal/auth/http/dto"
)

// LoginSuccessHandler writes the response of a successful login.
type LoginSuccessHandler func(c *gin.Context, principal *authDomain.Principal, token *authDomain.Token)

// LoginFailureHandler writes the response of a failed login.
type LoginFailureHandler func(c *gin.Context, err error)

// NewLoginSuccessHandler returns a handler that sends the token in the
// Authorization header and the principal summary as the body.
func NewLoginSuccessHandler(logger *slog.Logger) LoginSuccessHandler {
	return func(c *gin.Context, principal *authDomain.Principal, token *authDomain.Token) {
		logger.Info("login succeeded",
			slog.String("subject", principal.Email),
			slog.Time("expires_at", token.ExpiresAt))

		c.Header("Authorization", "Bearer "+token.Raw)
		c.JSON(http.StatusOK, dto.MapLoginResponse(principal, token))
	}
}

// NewLoginFailureHandler returns a handler that delegates to translator, so
// login failures share the pipeline error vocabulary.
func NewLoginFailureHandler(translator *ErrorTranslator) LoginFailureHandler {
	return func(c *gin.Context, err error) {
		translator.Translate(c, err)
	}
}
