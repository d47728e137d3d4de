package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/koliving/api/internal/auth/domain"
	"github.com/koliving/api/internal/auth/http/dto"
	authService "github.com/koliving/api/internal/auth/service"
	"github.com/koliving/api/internal/httputil"
	i18nService "github.com/koliving/api/internal/i18n/service"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type mockAuthenticationProvider struct {
	mock.Mock
}

func (m *mockAuthenticationProvider) Authenticate(
	ctx context.Context,
	credentials authDomain.Credentials,
) (*authDomain.Principal, error) {
	args := m.Called(ctx, credentials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

var (
	testKey  = []byte("0123456789abcdef0123456789abcdef")
	testUser = &authDomain.Principal{
		ID:    uuid.MustParse("0190a4b2-6c1e-7b3a-9f00-1a2b3c4d5e6f"),
		Email: "test@koliving.com",
		Name:  "Koliving Tester",
		Roles: []authDomain.Role{authDomain.RoleUser},
	}
	testAdmin = &authDomain.Principal{
		ID:    uuid.MustParse("0190a4b2-6c1e-7b3a-9f00-000000000001"),
		Email: "admin@koliving.com",
		Name:  "Koliving Admin",
		Roles: []authDomain.Role{authDomain.RoleAdmin},
	}
)

type pipelineFixture struct {
	router     *gin.Engine
	provider   *mockAuthenticationProvider
	tokens     authService.TokenService
	clock      *fakeClock
	downstream int
	// leaked records whether a principal was still bound after the pipeline returned.
	leaked bool
}

func newPipelineFixture(t *testing.T, throttle *LoginThrottle) *pipelineFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &pipelineFixture{
		provider: &mockAuthenticationProvider{},
		clock:    &fakeClock{now: time.Now()},
	}

	var err error
	f.tokens, err = authService.NewTokenService(testKey, time.Hour, "koliving", authService.WithClock(f.clock.Now))
	require.NoError(t, err)

	matcher, err := authDomain.NewRouteMatcher(authDomain.DefaultRouteConfig("v1", nil))
	require.NoError(t, err)

	bundle, err := i18nService.NewBundle("en")
	require.NoError(t, err)

	logger := createTestLogger()
	translator := NewErrorTranslator(bundle, i18nService.NewLocaleResolver(bundle.Locales()), logger)
	pipeline := NewAuthPipeline(PipelineDeps{
		Classifier: matcher,
		Throttle:   throttle,
		Provider:   f.provider,
		Tokens:     f.tokens,
		Translator: translator,
		Logger:     logger,
	})

	f.router = gin.New()
	f.router.Use(func(c *gin.Context) {
		c.Next()
		_, f.leaked = GetPrincipal(c.Request.Context())
	})
	f.router.Use(pipeline.Handler())

	respond := func(c *gin.Context) {
		f.downstream++
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			c.JSON(http.StatusOK, gin.H{"principal": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"principal": principal.Email})
	}
	f.router.GET("/api/v1/rooms/search", respond)
	f.router.GET("/api/v1/users/me", respond)
	f.router.OPTIONS("/api/v1/users/me", respond)
	f.router.GET("/api/v1/management/users", respond)
	f.router.GET("/api/v1/panic", func(c *gin.Context) {
		f.downstream++
		panic("database password is hunter2")
	})

	return f
}

func (f *pipelineFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *pipelineFixture) bearer(t *testing.T, principal *authDomain.Principal) string {
	t.Helper()
	token, err := f.tokens.Issue(principal)
	require.NoError(t, err)
	return "Bearer " + token.Raw
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestPipeline_PublicRoutes(t *testing.T) {
	t.Run("Success_NoTokenRequired", func(t *testing.T) {
		f := newPipelineFixture(t, nil)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/v1/rooms/search", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"principal":null}`, w.Body.String())
		assert.Equal(t, 1, f.downstream)
	})

	t.Run("Success_InvalidTokenIgnoredOnPublicRoute", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/search", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		w := f.serve(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"principal":null}`, w.Body.String())
	})

	t.Run("Success_PreflightSkipsAuthentication", func(t *testing.T) {
		f := newPipelineFixture(t, nil)

		w := f.serve(httptest.NewRequest(http.MethodOptions, "/api/v1/users/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, f.downstream)
	})
}

func TestPipeline_Login(t *testing.T) {
	credentials := authDomain.Credentials{Email: "test@koliving.com", Password: "KolivingPwd12"}

	t.Run("Success", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		f.provider.On("Authenticate", mock.Anything, credentials).Return(testUser, nil)

		w := f.serve(loginRequest(`{"email":"test@koliving.com","password":"KolivingPwd12"}`))

		require.Equal(t, http.StatusOK, w.Code)
		header := w.Header().Get("Authorization")
		require.True(t, strings.HasPrefix(header, "Bearer "))

		verified, err := f.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		require.NoError(t, err)
		assert.Equal(t, testUser, verified)

		var response dto.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testUser.ID, response.ID)
		assert.Equal(t, "test@koliving.com", response.Email)
		assert.Equal(t, []string{"USER"}, response.Roles)
		assert.WithinDuration(t, f.clock.now.Add(time.Hour), response.ExpiresAt, time.Second)
		assert.NotContains(t, w.Body.String(), "KolivingPwd12")
		assert.Zero(t, f.downstream)
	})

	t.Run("Error_BadCredentials", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		f.provider.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, authDomain.NewAuthError(authDomain.KindInvalidCredentials, nil))

		w := f.serve(loginRequest(`{"email":"test@koliving.com","password":"WrongPwd99"}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Header().Get("Authorization"))
		assert.Equal(t, httputil.ErrorResponse{
			Code:    "0011",
			Message: "The email or password is incorrect.",
		}, decodeError(t, w))
	})

	t.Run("Error_BadCredentialsLocalized", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		f.provider.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, authDomain.NewAuthError(authDomain.KindUnknownPrincipal, nil))

		req := loginRequest(`{"email":"ghost@koliving.com","password":"KolivingPwd12"}`)
		req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")
		w := f.serve(req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, httputil.ErrorResponse{
			Code:    "0010",
			Message: "존재하지 않는 사용자입니다.",
		}, decodeError(t, w))
	})

	t.Run("Error_MalformedBody", func(t *testing.T) {
		f := newPipelineFixture(t, nil)

		w := f.serve(loginRequest(`{"email":`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, httputil.ErrorResponse{
			Code:    "0015",
			Message: "The login request is invalid.",
		}, decodeError(t, w))
		f.provider.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Error_WrongFieldTypeLocalized", func(t *testing.T) {
		f := newPipelineFixture(t, nil)

		req := loginRequest(`{"email":1,"password":"x"}`)
		req.Header.Set("Accept-Language", "ko")
		w := f.serve(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "잘못된 로그인 요청입니다.", response.Message)
		assert.NotContains(t, response.Message, "json:")
		assert.NotContains(t, response.Message, "Go struct")
	})

	t.Run("Error_MissingPasswordNamesFieldOnly", func(t *testing.T) {
		f := newPipelineFixture(t, nil)

		req := loginRequest(`{"email":"a@b.co"}`)
		req.Header.Set("Accept-Language", "ko")
		w := f.serve(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, httputil.ErrorResponse{
			Code:    "0015",
			Message: "잘못된 로그인 요청입니다. 다음 항목을 확인해 주세요: password",
		}, decodeError(t, w))
	})

	t.Run("Error_InvalidEmail", func(t *testing.T) {
		f := newPipelineFixture(t, nil)

		w := f.serve(loginRequest(`{"email":"not-an-email","password":"KolivingPwd12"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "0015", response.Code)
		assert.Contains(t, response.Message, "email")
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		f.provider.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

		w := f.serve(loginRequest(`{"email":"test@koliving.com","password":"KolivingPwd12"}`))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "9999", response.Code)
		assert.NotContains(t, response.Message, "10.0.0.5")
	})

	t.Run("Error_GetOnLoginPathIsNotLogin", func(t *testing.T) {
		f := newPipelineFixture(t, nil)

		w := f.serve(httptest.NewRequest(http.MethodGet, "/api/v1/auth/login", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		f.provider.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})
}

func TestPipeline_LoginThrottle(t *testing.T) {
	f := newPipelineFixture(t, NewLoginThrottle(0.01, 2))
	f.provider.On("Authenticate", mock.Anything, mock.Anything).
		Return(nil, authDomain.NewAuthError(authDomain.KindInvalidCredentials, nil))

	for i := 0; i < 2; i++ {
		w := f.serve(loginRequest(`{"email":"test@koliving.com","password":"WrongPwd99"}`))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := f.serve(loginRequest(`{"email":"test@koliving.com","password":"WrongPwd99"}`))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	response := decodeError(t, w)
	assert.Equal(t, "0016", response.Code)
	assert.Contains(t, response.Message, w.Header().Get("Retry-After"))
	f.provider.AssertNumberOfCalls(t, "Authenticate", 2)
}

func TestPipeline_Logout(t *testing.T) {
	f := newPipelineFixture(t, nil)

	w := f.serve(httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"You have been signed out."}`, w.Body.String())
	assert.Zero(t, f.downstream)
}

func TestPipeline_ProtectedRoutes(t *testing.T) {
	t.Run("Success_UserToken", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", f.bearer(t, testUser))

		w := f.serve(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"principal":"test@koliving.com"}`, w.Body.String())
		assert.False(t, f.leaked, "principal must be cleared after the request")
	})

	t.Run("Success_LowercaseScheme", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "bearer "+strings.TrimPrefix(f.bearer(t, testUser), "Bearer "))

		w := f.serve(req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_AdminImpliesUser", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", f.bearer(t, testAdmin))

		w := f.serve(req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_AdminOnManagement", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/management/users", nil)
		req.Header.Set("Authorization", f.bearer(t, testAdmin))

		w := f.serve(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"principal":"admin@koliving.com"}`, w.Body.String())
	})

	t.Run("Error_UserOnManagement", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/management/users", nil)
		req.Header.Set("Authorization", f.bearer(t, testUser))

		w := f.serve(req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "0009", decodeError(t, w).Code)
		assert.Zero(t, f.downstream)
	})

	tests := []struct {
		name          string
		authorization func(f *pipelineFixture, t *testing.T) string
		advance       time.Duration
		code          string
	}{
		{
			name:          "Error_MissingHeader",
			authorization: func(*pipelineFixture, *testing.T) string { return "" },
			code:          "0008",
		},
		{
			name:          "Error_BasicScheme",
			authorization: func(*pipelineFixture, *testing.T) string { return "Basic dGVzdDp0ZXN0" },
			code:          "0008",
		},
		{
			name:          "Error_EmptyBearer",
			authorization: func(*pipelineFixture, *testing.T) string { return "Bearer   " },
			code:          "0008",
		},
		{
			name:          "Error_Malformed",
			authorization: func(*pipelineFixture, *testing.T) string { return "Bearer not-a-jwt" },
			code:          "0012",
		},
		{
			name:          "Error_Expired",
			authorization: func(f *pipelineFixture, t *testing.T) string { return f.bearer(t, testUser) },
			advance:       time.Hour,
			code:          "0014",
		},
		{
			name: "Error_EscalatedRolesInPayload",
			authorization: func(f *pipelineFixture, t *testing.T) string {
				parts := strings.Split(strings.TrimPrefix(f.bearer(t, testUser), "Bearer "), ".")
				payload, err := base64.RawURLEncoding.DecodeString(parts[1])
				require.NoError(t, err)
				payload = bytes.Replace(payload, []byte(`"USER"`), []byte(`"ADMIN"`), 1)
				parts[1] = base64.RawURLEncoding.EncodeToString(payload)
				return "Bearer " + strings.Join(parts, ".")
			},
			code: "0013",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t, nil)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/management/users", nil)
			if header := tt.authorization(f, t); header != "" {
				req.Header.Set("Authorization", header)
			}
			f.clock.now = f.clock.now.Add(tt.advance)

			w := f.serve(req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
			assert.Zero(t, f.downstream)
		})
	}
}

func TestPipeline_PanicDownstream(t *testing.T) {
	f := newPipelineFixture(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/panic", nil)
	req.Header.Set("Authorization", f.bearer(t, testUser))

	w := f.serve(req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	response := decodeError(t, w)
	assert.Equal(t, "9999", response.Code)
	assert.Equal(t, "An internal error occurred.", response.Message)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.False(t, f.leaked)
}

func TestPipeline_CancelledRequest(t *testing.T) {
	f := newPipelineFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil).WithContext(ctx)
	w := f.serve(req)

	assert.Empty(t, w.Body.String())
	assert.Zero(t, f.downstream)
}
