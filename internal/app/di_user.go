package app

import (
	"fmt"

	roomHTTP "github.com/koliving/api/internal/room/http"
	roomRepository "github.com/koliving/api/internal/room/repository"
	roomUseCase "github.com/koliving/api/internal/room/usecase"
	userHTTP "github.com/koliving/api/internal/user/http"
	userRepository "github.com/koliving/api/internal/user/repository"
	userUseCase "github.com/koliving/api/internal/user/usecase"
)

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	err := c.lazy(&c.userRepoInit, "userRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for user repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.userRepo = userRepository.NewPostgreSQLUserRepository(db)
		case "mysql":
			c.userRepo = userRepository.NewMySQLUserRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case. It also serves as the credential
// store of the authentication provider.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	err := c.lazy(&c.userUseCaseInit, "userUseCase", func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for user use case: %w", err)
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository for user use case: %w", err)
		}

		uc := userUseCase.NewUserUseCase(txManager, userRepo, c.PasswordService())
		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return fmt.Errorf("failed to get business metrics for user use case: %w", err)
			}
			uc = userUseCase.NewUserUseCaseWithMetrics(uc, businessMetrics)
		}

		c.userUseCase = uc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.userUseCase, nil
}

// UserHandler returns the HTTP handler for signup and account lookups.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	err := c.lazy(&c.userHandlerInit, "userHandler", func() error {
		uc, err := c.UserUseCase()
		if err != nil {
			return fmt.Errorf("failed to get user use case for user handler: %w", err)
		}
		c.userHandler = userHTTP.NewUserHandler(uc, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.userHandler, nil
}

// RoomRepository returns the room repository for the configured driver.
func (c *Container) RoomRepository() (roomUseCase.RoomRepository, error) {
	err := c.lazy(&c.roomRepoInit, "roomRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for room repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.roomRepo = roomRepository.NewPostgreSQLRoomRepository(db)
		case "mysql":
			c.roomRepo = roomRepository.NewMySQLRoomRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.roomRepo, nil
}

// RoomUseCase returns the room use case.
func (c *Container) RoomUseCase() (roomUseCase.UseCase, error) {
	err := c.lazy(&c.roomUseCaseInit, "roomUseCase", func() error {
		roomRepo, err := c.RoomRepository()
		if err != nil {
			return fmt.Errorf("failed to get room repository for room use case: %w", err)
		}
		uc := roomUseCase.NewRoomUseCase(roomRepo)
		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return fmt.Errorf("failed to get business metrics for room use case: %w", err)
			}
			uc = roomUseCase.NewRoomUseCaseWithMetrics(uc, businessMetrics)
		}

		c.roomUseCase = uc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.roomUseCase, nil
}

// RoomHandler returns the HTTP handler for room search and listing.
func (c *Container) RoomHandler() (*roomHTTP.RoomHandler, error) {
	err := c.lazy(&c.roomHandlerInit, "roomHandler", func() error {
		uc, err := c.RoomUseCase()
		if err != nil {
			return fmt.Errorf("failed to get room use case for room handler: %w", err)
		}
		c.roomHandler = roomHTTP.NewRoomHandler(uc, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.roomHandler, nil
}
