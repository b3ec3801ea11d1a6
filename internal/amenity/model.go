package amenity

import (
	"net/http"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "service not found")
	ErrNameRequired = apperror.New(http.StatusBadRequest, "name is required")
	ErrInvalidPrice = apperror.New(http.StatusBadRequest, "price must be non-negative")
	ErrInactive     = apperror.New(http.StatusConflict, "service is inactive")
)

// Amenity represents a chargeable hotel service (e.g., laundry, breakfast).
type Amenity struct {
	ID         string
	Name       string
	PriceCents int64 // unit price
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter defines parameters for listing amenities.
type Filter struct {
	ActiveOnly bool
	Page       int
	PageSize   int
}
