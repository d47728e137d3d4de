// Package http provides the HTTP server, its router and the cross-cutting
// middleware applied to every request.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/koliving/api/internal/auth/http"
	"github.com/koliving/api/internal/config"
	"github.com/koliving/api/internal/httputil"
	"github.com/koliving/api/internal/metrics"
	roomHTTP "github.com/koliving/api/internal/room/http"
	userHTTP "github.com/koliving/api/internal/user/http"
)

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDeps are the handlers and middleware mounted by SetupRouter.
type RouterDeps struct {
	Config          *config.Config
	Pipeline        *authHTTP.Pipeline
	UserHandler     *userHTTP.UserHandler
	RoomHandler     *roomHTTP.RoomHandler
	MetricsProvider *metrics.Provider
}

// SetupRouter builds the gin engine. The authentication pipeline runs for
// every route after CORS, so preflight requests are answered before it.
func (s *Server) SetupRouter(deps RouterDeps) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), deps.Config.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(deps.Config.CORSEnabled, deps.Config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(deps.Pipeline.Handler())

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api/" + deps.Config.APIVersion)
	{
		// answered by the pipeline
		api.POST("/auth/login", s.pipelineOnlyHandler)
		api.POST("/logout", s.pipelineOnlyHandler)

		api.POST("/auth/signup", deps.UserHandler.SignupHandler)

		rooms := api.Group("/rooms")
		{
			rooms.GET("/search", deps.RoomHandler.SearchHandler)
			rooms.POST("", deps.RoomHandler.CreateHandler)
		}

		api.GET("/users/me", deps.UserHandler.MeHandler)

		management := api.Group("/management")
		{
			management.GET("/users", deps.UserHandler.ListHandler)
			management.GET("/users/:id", deps.UserHandler.GetHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database != "ok" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}

// pipelineOnlyHandler backs routes the authentication pipeline always
// answers. Reaching it means the pipeline was not mounted.
func (s *Server) pipelineOnlyHandler(c *gin.Context) {
	httputil.HandleErrorGin(c, errors.New("route must be answered by the authentication pipeline"), s.logger)
}
