// Package http provides HTTP handlers for user-related operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/koliving/api/internal/auth/http"
	apperrors "github.com/koliving/api/internal/errors"
	"github.com/koliving/api/internal/httputil"
	"github.com/koliving/api/internal/user/http/dto"
	"github.com/koliving/api/internal/user/usecase"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// SignupHandler registers a new account with the USER role.
// POST /api/v1/auth/signup
func (h *UserHandler) SignupHandler(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleMalformedBodyGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.RegisterUser(c.Request.Context(), dto.ToRegisterUserInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// MeHandler returns the account of the authenticated principal.
// GET /api/v1/users/me
func (h *UserHandler) MeHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByEmail(c.Request.Context(), principal.Email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ListHandler returns a page of users. Reachable by ADMIN only.
// GET /api/v1/management/users?offset=0&limit=20
func (h *UserHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, err := h.userUseCase.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewPage(dto.ToUserResponses(users), offset, limit))
}

// GetHandler returns one user by ID. Reachable by ADMIN only.
// GET /api/v1/management/users/:id
func (h *UserHandler) GetHandler(c *gin.Context) {
	id, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
