package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationsPath returns the migration source for a database driver.
func migrationsPath(dbDriver string) (string, error) {
	switch dbDriver {
	case "postgres":
		return "file://migrations/postgresql", nil
	case "mysql":
		return "file://migrations/mysql", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", dbDriver)
	}
}

// RunMigrations applies every pending migration of the configured driver.
// Having nothing to apply is not an error.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	logger.Info("running database migrations", slog.String("driver", dbDriver))

	path, err := migrationsPath(dbDriver)
	if err != nil {
		return err
	}

	m, err := migrate.New(path, dbConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
