package booking

import (
	"net/http"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrDateConflict     = apperror.New(http.StatusConflict, "room already booked for these dates")
	ErrInvalidDateRange = apperror.New(http.StatusBadRequest, "check-out must be after check-in")
	ErrCheckInPast      = apperror.New(http.StatusBadRequest, "check-in date cannot be in the past")
	ErrRoomNotFound     = apperror.New(http.StatusNotFound, "room not found")
	ErrRoomOutOfService = apperror.New(http.StatusConflict, "room is out of service")
	ErrCapacityExceeded = apperror.New(http.StatusBadRequest, "guests exceed room capacity")
	ErrInvalidGuests    = apperror.New(http.StatusBadRequest, "guests must be at least 1")
	ErrStatusConflict   = apperror.New(http.StatusConflict, "booking is not in a state that allows this operation")
	ErrCheckInWindow    = apperror.New(http.StatusConflict, "outside the allowed check-in window")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Status is the booking lifecycle state. Transitions are restricted to the
// table below; anything else is rejected with ErrStatusConflict.
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// transitions is the complete lifecycle graph:
// pending -> approved -> checked_in -> checked_out, with cancellation
// reachable from pending and approved only.
var transitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusCancelled},
	StatusApproved:   {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Live reports whether the booking still blocks its room's calendar.
// Cancelled and checked-out bookings never conflict with new reservations.
func (s Status) Live() bool {
	return s != StatusCancelled && s != StatusCheckedOut
}

// CanTransition reports whether from -> to is present in the lifecycle table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking represents a holder's claim on a room for a half-open date
// interval [CheckIn, CheckOut).
type Booking struct {
	ID              string
	RoomID          string
	RoomName        string
	UserID          string
	UserName        string
	CheckIn         time.Time // date, midnight UTC
	CheckOut        time.Time // date, midnight UTC
	Guests          int
	Nights          int
	RoomChargeCents int64 // rate x nights as computed at create/edit time
	Status          Status
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID   string
	RoomID   string
	Status   string
	From     *time.Time // bookings ending on or after this date
	To       *time.Time // bookings starting on or before this date
	Page     int
	PageSize int
}

// DateOf truncates t to its UTC calendar date. All interval comparisons in
// this package happen at day granularity.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NightsBetween returns the stay length in nights for the half-open
// interval [checkIn, checkOut): ceiling of the interval length in days,
// never less than 1.
func NightsBetween(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 1
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	if nights < 1 {
		nights = 1
	}
	return nights
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// CheckInWindowOpen reports whether a check-in performed at "now" falls in
// the allowed window: from one day before the scheduled check-in date up to,
// but not including, the check-out date. Evaluated at day granularity.
func CheckInWindowOpen(now, checkIn, checkOut time.Time) bool {
	today := DateOf(now)
	windowStart := DateOf(checkIn).AddDate(0, 0, -1)
	return !today.Before(windowStart) && today.Before(DateOf(checkOut))
}
