// Package domain defines room listings offered for co-living.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/koliving/api/internal/errors"
)

// Room is a listing. Amounts are in the smallest currency unit.
type Room struct {
	ID            uuid.UUID
	Title         string
	Location      string
	MonthlyRent   int64
	Deposit       int64
	AvailableFrom time.Time
	CreatedAt     time.Time
}

// SearchCriteria filters a room search. Zero values mean no filter.
type SearchCriteria struct {
	Location string
	MaxRent  int64
	Offset   int
	Limit    int
}

// ErrRoomNotFound indicates the requested room does not exist.
var ErrRoomNotFound = errors.Wrap(errors.ErrNotFound, "room not found")
