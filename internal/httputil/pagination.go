package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Page is the envelope of every paginated listing.
type Page[T any] struct {
	Data   []T `json:"data"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NewPage wraps items, replacing a nil slice so the body always carries an array.
func NewPage[T any](items []T, offset, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Offset: offset, Limit: limit}
}

// ParsePagination reads the offset and limit query parameters.
// offset defaults to 0, limit defaults to 20 and cannot exceed 100.
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		return 0, 0, fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxLimit)
	}

	return offset, limit, nil
}

// ParseUUIDParam reads the named path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s parameter: must be a UUID", name)
	}
	return id, nil
}
