// Package dto provides data transfer objects for the room HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/koliving/api/internal/room/domain"
	"github.com/koliving/api/internal/room/usecase"
	appValidation "github.com/koliving/api/internal/validation"
)

// CreateRoomRequest is the body of a new listing.
type CreateRoomRequest struct {
	Title         string `json:"title"`
	Location      string `json:"location"`
	MonthlyRent   int64  `json:"monthly_rent"`
	Deposit       int64  `json:"deposit"`
	AvailableFrom string `json:"available_from"`
}

// Validate checks the request shape. available_from is a YYYY-MM-DD date.
func (r *CreateRoomRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.AvailableFrom, validation.Required, validation.Date(time.DateOnly)),
	)
	return appValidation.WrapValidationError(err)
}

// ToCreateRoomInput converts a validated request into use case input.
func ToCreateRoomInput(r CreateRoomRequest) usecase.CreateRoomInput {
	availableFrom, _ := time.Parse(time.DateOnly, r.AvailableFrom)
	return usecase.CreateRoomInput{
		Title:         r.Title,
		Location:      r.Location,
		MonthlyRent:   r.MonthlyRent,
		Deposit:       r.Deposit,
		AvailableFrom: availableFrom,
	}
}

// RoomResponse represents a listing in API responses.
type RoomResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	MonthlyRent   int64     `json:"monthly_rent"`
	Deposit       int64     `json:"deposit"`
	AvailableFrom string    `json:"available_from"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToRoomResponse maps a domain room to its response.
func ToRoomResponse(room *domain.Room) RoomResponse {
	return RoomResponse{
		ID:            room.ID,
		Title:         room.Title,
		Location:      room.Location,
		MonthlyRent:   room.MonthlyRent,
		Deposit:       room.Deposit,
		AvailableFrom: room.AvailableFrom.Format(time.DateOnly),
		CreatedAt:     room.CreatedAt,
	}
}

// ToRoomResponses maps a list of rooms.
func ToRoomResponses(rooms []*domain.Room) []RoomResponse {
	responses := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, ToRoomResponse(room))
	}
	return responses
}
