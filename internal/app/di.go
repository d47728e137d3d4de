// Package app provides the dependency injection container that assembles the
// koliving API from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authDomain "github.com/koliving/api/internal/auth/domain"
	authHTTP "github.com/koliving/api/internal/auth/http"
	authService "github.com/koliving/api/internal/auth/service"
	authUseCase "github.com/koliving/api/internal/auth/usecase"
	"github.com/koliving/api/internal/config"
	cryptoService "github.com/koliving/api/internal/crypto/service"
	"github.com/koliving/api/internal/database"
	"github.com/koliving/api/internal/http"
	i18nService "github.com/koliving/api/internal/i18n/service"
	"github.com/koliving/api/internal/metrics"
	roomHTTP "github.com/koliving/api/internal/room/http"
	roomUseCase "github.com/koliving/api/internal/room/usecase"
	userHTTP "github.com/koliving/api/internal/user/http"
	userUseCase "github.com/koliving/api/internal/user/usecase"
)

// Container holds all application dependencies. Components are created on
// first access and cached, including the error of a failed initialization.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Users and rooms
	userRepo    userUseCase.UserRepository
	userUseCase userUseCase.UseCase
	userHandler *userHTTP.UserHandler
	roomRepo    roomUseCase.RoomRepository
	roomUseCase roomUseCase.UseCase
	roomHandler *roomHTTP.RoomHandler

	// Authentication
	passwordService authService.PasswordService
	kmsService      cryptoService.KMSService
	tokenService    authService.TokenService
	routeMatcher    *authDomain.RouteMatcher
	authProvider    authUseCase.AuthenticationProvider
	loginThrottle   *authHTTP.LoginThrottle
	translator      *authHTTP.ErrorTranslator
	pipeline        *authHTTP.Pipeline

	// Localization
	messageBundle  *i18nService.Bundle
	messageSource  i18nService.MessageSource
	messageRepo    i18nService.MessageRepository
	localeResolver *i18nService.LocaleResolver

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	userRepoInit        sync.Once
	userUseCaseInit     sync.Once
	userHandlerInit     sync.Once
	roomRepoInit        sync.Once
	roomUseCaseInit     sync.Once
	roomHandlerInit     sync.Once
	passwordServiceInit sync.Once
	kmsServiceInit      sync.Once
	tokenServiceInit    sync.Once
	routeMatcherInit    sync.Once
	authProviderInit    sync.Once
	loginThrottleInit   sync.Once
	translatorInit      sync.Once
	pipelineInit        sync.Once
	messageBundleInit   sync.Once
	messageSourceInit   sync.Once
	messageRepoInit     sync.Once
	localeResolverInit  sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// lazy runs init once under once and remembers its error under name, so
// later calls return the same failure.
func (c *Container) lazy(once *sync.Once, name string, init func() error) error {
	once.Do(func() {
		if err := init(); err != nil {
			c.mu.Lock()
			c.initErrors[name] = err
			c.mu.Unlock()
		}
	})
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// Logger returns the JSON logger configured with the LOG_LEVEL threshold.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection pool.
func (c *Container) DB() (*sql.DB, error) {
	err := c.lazy(&c.dbInit, "db", func() (err error) {
		c.db, err = c.initDB()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	err := c.lazy(&c.txManagerInit, "txManager", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		c.txManager = database.NewTxManager(db)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	err := c.lazy(&c.metricsProviderInit, "metricsProvider", func() (err error) {
		if !c.config.MetricsEnabled {
			return nil
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	err := c.lazy(&c.businessMetricsInit, "businessMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return nil
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router set up.
func (c *Container) HTTPServer() (*http.Server, error) {
	err := c.lazy(&c.httpServerInit, "httpServer", func() (err error) {
		c.httpServer, err = c.initHTTPServer()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the server exposing /metrics on the metrics port.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	err := c.lazy(&c.metricsServerInit, "metricsServer", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource. Servers are stopped before
// the database pool they use is closed. Later calls return the first result.
func (c *Container) Shutdown(ctx context.Context) error {
	c.shutdownOnce.Do(func() {
		c.shutdownErr = c.shutdown(ctx)
	})
	return c.shutdownErr
}

func (c *Container) shutdown(ctx context.Context) error {
	var errs []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	pipeline, err := c.AuthPipeline()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth pipeline for http server: %w", err)
	}

	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}

	roomHandler, err := c.RoomHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get room handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(http.RouterDeps{
		Config:          c.config,
		Pipeline:        pipeline,
		UserHandler:     userHandler,
		RoomHandler:     roomHandler,
		MetricsProvider: provider,
	})
	return server, nil
}
