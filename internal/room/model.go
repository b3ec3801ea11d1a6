package room

import (
	"net/http"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "room not found")
	ErrEmptyName     = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidRate   = apperror.New(http.StatusBadRequest, "rate must be non-negative")
	ErrInvalidCap    = apperror.New(http.StatusBadRequest, "capacity must be at least 1")
	ErrInvalidStatus = apperror.New(http.StatusBadRequest, "invalid room status")
)

// OperationalStatus is the room's catalog-level marker. It is distinct from
// calendar availability: an out_of_service room is never offered regardless
// of calendar state, and "reserved" is a derived marker set on check-in.
type OperationalStatus string

const (
	StatusAvailable    OperationalStatus = "available"
	StatusReserved     OperationalStatus = "reserved"
	StatusOutOfService OperationalStatus = "out_of_service"
)

// Valid reports whether s is a known operational status.
func (s OperationalStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusOutOfService:
		return true
	}
	return false
}

// Room represents a bookable unit with a nightly rate and capacity.
type Room struct {
	ID        string
	Name      string
	RateCents int64 // nightly rate
	Capacity  int
	Status    OperationalStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing rooms.
type Filter struct {
	Status   string
	Page     int
	PageSize int
}
