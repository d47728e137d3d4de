// Package usecase implements room search and listing creation.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/koliving/api/internal/room/domain"
	appValidation "github.com/koliving/api/internal/validation"
)

// CreateRoomInput contains the data of a new listing.
type CreateRoomInput struct {
	Title         string
	Location      string
	MonthlyRent   int64
	Deposit       int64
	AvailableFrom time.Time
}

// UseCase defines room operations.
type UseCase interface {
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Room, error)
	Create(ctx context.Context, input CreateRoomInput) (*domain.Room, error)
}

// RoomRepository interface defines room repository operations.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Room, error)
}

type roomUseCase struct {
	roomRepo RoomRepository
}

// NewRoomUseCase creates a room UseCase.
func NewRoomUseCase(roomRepo RoomRepository) UseCase {
	return &roomUseCase{roomRepo: roomRepo}
}

func (uc *roomUseCase) Search(ctx context.Context, criteria domain.SearchCriteria) ([]*domain.Room, error) {
	err := validation.ValidateStruct(&criteria,
		validation.Field(&criteria.MaxRent, validation.Min(int64(0)).Error("max_rent must not be negative")),
		validation.Field(&criteria.Offset, validation.Min(0)),
		validation.Field(&criteria.Limit, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	criteria.Location = strings.TrimSpace(criteria.Location)
	return uc.roomRepo.Search(ctx, criteria)
}

func (uc *roomUseCase) Create(ctx context.Context, input CreateRoomInput) (*domain.Room, error) {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Title, validation.Required, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&input.Location, validation.Required, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&input.MonthlyRent, validation.Required, validation.Min(int64(1))),
		validation.Field(&input.Deposit, validation.Min(int64(0))),
		validation.Field(&input.AvailableFrom, validation.Required),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	room := &domain.Room{
		ID:            uuid.Must(uuid.NewV7()),
		Title:         strings.TrimSpace(input.Title),
		Location:      strings.TrimSpace(input.Location),
		MonthlyRent:   input.MonthlyRent,
		Deposit:       input.Deposit,
		AvailableFrom: input.AvailableFrom.UTC(),
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
	if err := uc.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}
