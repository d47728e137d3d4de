package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	authDomain "github.com/koliving/api/internal/auth/domain"
	"github.com/koliving/api/internal/auth/http/dto"
	authService "github.com/koliving/api/internal/auth/service"
	authUseCase "github.com/koliving/api/internal/auth/usecase"
	"github.com/koliving/api/internal/metrics"
)

// RouteClassifier decides how a request path is treated.
type RouteClassifier interface {
	Classify(path, method string) authDomain.Classification
}

// classifyStage records the route classification of the request.
type classifyStage struct {
	classifier RouteClassifier
}

// NewClassifyStage creates the stage that classifies each request.
func NewClassifyStage(classifier RouteClassifier) Stage {
	return &classifyStage{classifier: classifier}
}

func (s *classifyStage) Name() string { return "classify" }

func (s *classifyStage) Process(ex *Exchange) Outcome {
	c := ex.Context
	ex.Classification = s.classifier.Classify(c.Request.URL.Path, c.Request.Method)
	c.Set(metrics.RouteKindKey, ex.Classification.Kind.String())
	return Continue()
}

// loginThrottleStage limits login attempts per client IP.
type loginThrottleStage struct {
	throttle *LoginThrottle
	logger   *slog.Logger
}

// NewLoginThrottleStage creates the stage that rate limits login requests.
// A nil throttle disables it.
func NewLoginThrottleStage(throttle *LoginThrottle, logger *slog.Logger) Stage {
	return &loginThrottleStage{throttle: throttle, logger: logger}
}

func (s *loginThrottleStage) Name() string { return "login_throttle" }

func (s *loginThrottleStage) Process(ex *Exchange) Outcome {
	if ex.Classification.Kind != authDomain.RouteLogin || s.throttle == nil {
		return Continue()
	}

	c := ex.Context
	clientIP := c.ClientIP()
	allowed, delay := s.throttle.Allow(clientIP)
	if allowed {
		return Continue()
	}

	retryAfter := int(math.Ceil(delay.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	s.logger.Debug("login rate limit exceeded",
		slog.String("client_ip", clientIP),
		slog.Int("retry_after", retryAfter))

	c.Header("Retry-After", strconv.Itoa(retryAfter))
	return Reject(authDomain.NewAuthError(authDomain.KindTooManyAttempts, nil))
}

// loginStage authenticates credentials and issues an access token.
type loginStage struct {
	provider  authUseCase.AuthenticationProvider
	tokens    authService.TokenService
	onSuccess LoginSuccessHandler
	onFailure LoginFailureHandler
}

// NewLoginStage creates the stage that runs the credential login flow.
func NewLoginStage(
	provider authUseCase.AuthenticationProvider,
	tokens authService.TokenService,
	onSuccess LoginSuccessHandler,
	onFailure LoginFailureHandler,
) Stage {
	return &loginStage{
		provider:  provider,
		tokens:    tokens,
		onSuccess: onSuccess,
		onFailure: onFailure,
	}
}

func (s *loginStage) Name() string { return "login" }

func (s *loginStage) Process(ex *Exchange) Outcome {
	if ex.Classification.Kind != authDomain.RouteLogin {
		return Continue()
	}

	c := ex.Context

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.onFailure(c, authDomain.NewAuthError(authDomain.KindValidationFailed, err))
		return ShortCircuit()
	}
	if err := req.Validate(); err != nil {
		s.onFailure(c, authDomain.NewAuthError(authDomain.KindValidationFailed, err))
		return ShortCircuit()
	}

	principal, err := s.provider.Authenticate(c.Request.Context(), req.ToCredentials())
	if err != nil {
		s.onFailure(c, err)
		return ShortCircuit()
	}

	token, err := s.tokens.Issue(principal)
	if err != nil {
		s.onFailure(c, err)
		return ShortCircuit()
	}

	s.onSuccess(c, principal, token)
	return ShortCircuit()
}

// logoutStage acknowledges logout. Tokens are not tracked server side, so
// the client discards its token.
type logoutStage struct {
	translator *ErrorTranslator
}

// NewLogoutStage creates the stateless logout stage.
func NewLogoutStage(translator *ErrorTranslator) Stage {
	return &logoutStage{translator: translator}
}

func (s *logoutStage) Name() string { return "logout" }

func (s *logoutStage) Process(ex *Exchange) Outcome {
	if ex.Classification.Kind != authDomain.RouteLogout {
		return Continue()
	}

	c := ex.Context
	c.JSON(http.StatusOK, dto.MessageResponse{Message: s.translator.Message(c, logoutMessageKey)})
	return ShortCircuit()
}

// bearerTokenStage verifies the bearer token of protected requests and binds
// the principal it carries.
type bearerTokenStage struct {
	tokens authService.TokenService
	logger *slog.Logger
}

// NewBearerTokenStage creates the token verification stage.
func NewBearerTokenStage(tokens authService.TokenService, logger *slog.Logger) Stage {
	return &bearerTokenStage{tokens: tokens, logger: logger}
}

func (s *bearerTokenStage) Name() string { return "bearer_token" }

func (s *bearerTokenStage) Process(ex *Exchange) Outcome {
	if ex.Classification.Kind != authDomain.RouteProtected {
		return Continue()
	}

	c := ex.Context
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return Reject(authDomain.NewAuthError(authDomain.KindMissingToken, nil))
	}

	principal, err := s.tokens.Verify(raw)
	if err != nil {
		return Reject(err)
	}

	ex.Principal = principal
	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

	s.logger.Debug("authentication successful", slog.String("subject", principal.Email))
	return Continue()
}

// bearerToken extracts the token of a "Bearer <token>" header value. The
// scheme is case insensitive.
func bearerToken(header string) (string, bool) {
	const bearerPrefix = "bearer "
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// roleStage enforces the role required by the route classification.
type roleStage struct {
	logger *slog.Logger
}

// NewRoleStage creates the role authorization stage.
func NewRoleStage(logger *slog.Logger) Stage {
	return &roleStage{logger: logger}
}

func (s *roleStage) Name() string { return "role" }

func (s *roleStage) Process(ex *Exchange) Outcome {
	if ex.Classification.Kind != authDomain.RouteProtected {
		return Continue()
	}
	if ex.Principal == nil {
		return Reject(authDomain.NewAuthError(authDomain.KindMissingToken, nil))
	}

	required := ex.Classification.RequiredRole
	if required == "" || ex.Principal.HasRole(required) {
		return Continue()
	}

	s.logger.Debug("authorization failed: insufficient role",
		slog.String("subject", ex.Principal.Email),
		slog.String("required_role", string(required)),
		slog.String("path", ex.Context.Request.URL.Path))
	return Reject(authDomain.NewAuthError(authDomain.KindInsufficientRole, nil))
}
