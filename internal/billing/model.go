package billing

import (
	"net/http"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/pkg/apperror"
)

var (
	ErrUsageNotFound   = apperror.New(http.StatusNotFound, "service usage not found")
	ErrBookingClosed   = apperror.New(http.StatusConflict, "booking no longer accepts service changes")
	ErrInvalidQuantity = apperror.New(http.StatusBadRequest, "quantity must be at least 1")
)

// UsageLine is one consumed hotel service charged to a booking. The unit
// price and amount are frozen at attach time; later catalog price changes
// do not affect recorded lines.
type UsageLine struct {
	ID             string
	BookingID      string
	AmenityID      string
	AmenityName    string
	Quantity       int
	UnitPriceCents int64
	AmountCents    int64
	CreatedAt      time.Time
}

// Quote is the billing total for a booking at a point in time. The room
// charge uses the room's current rate; usage lines keep their frozen
// amounts.
type Quote struct {
	Nights        int
	RateCents     int64
	RoomCents     int64
	ServicesCents int64
	TotalCents    int64
}
