// Package http provides HTTP handlers for room listings.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/koliving/api/internal/httputil"
	"github.com/koliving/api/internal/room/domain"
	"github.com/koliving/api/internal/room/http/dto"
	"github.com/koliving/api/internal/room/usecase"
)

// RoomHandler handles room HTTP requests.
type RoomHandler struct {
	roomUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(roomUseCase usecase.UseCase, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		roomUseCase: roomUseCase,
		logger:      logger,
	}
}

// SearchHandler lists rooms without authentication.
// GET /api/v1/rooms/search?location=Mapo&max_rent=700000&offset=0&limit=20
func (h *RoomHandler) SearchHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var maxRent int64
	if raw := c.Query("max_rent"); raw != "" {
		maxRent, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid max_rent parameter: must be an integer"), h.logger)
			return
		}
	}

	rooms, err := h.roomUseCase.Search(c.Request.Context(), domain.SearchCriteria{
		Location: c.Query("location"),
		MaxRent:  maxRent,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewPage(dto.ToRoomResponses(rooms), offset, limit))
}

// CreateHandler publishes a new listing. Requires an authenticated USER.
// POST /api/v1/rooms
func (h *RoomHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleMalformedBodyGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	room, err := h.roomUseCase.Create(c.Request.Context(), dto.ToCreateRoomInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}
