package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/koliving/api/internal/app"
	"github.com/koliving/api/internal/config"
)

const (
	throttleSweepInterval = 10 * time.Minute
	shutdownTimeout       = 30 * time.Second
)

// RunServer starts the API server, the metrics server when metrics are
// enabled, and the login throttle sweeper. It blocks until SIGINT or SIGTERM
// or until one of them fails, then shuts everything down.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))
	defer closeContainer(container, logger)

	// builds the whole graph, so a missing signing key fails here
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if cfg.MetricsEnabled {
		metricsServer, err := container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	if throttle := container.LoginThrottle(); throttle != nil {
		g.Go(func() error {
			return throttle.Run(gctx, throttleSweepInterval)
		})
	}

	// stops the servers once a signal arrives or any goroutine fails
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Any("cause", context.Cause(gctx)))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return container.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
