package http

import (
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/booking"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/request"
	roomHttp "github.com/pinewood/hotel-booking-backend/internal/room/http"
	userHttp "github.com/pinewood/hotel-booking-backend/internal/user/http"
)

type CreateBookingBody struct {
	RoomID   string    `json:"room_id" binding:"required,uuid"`
	CheckIn  time.Time `json:"check_in" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	CheckOut time.Time `json:"check_out" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	Guests   int       `json:"guests" binding:"required,min=1"`
}

type UpdateBookingBody struct {
	RoomID   *string    `json:"room_id" binding:"omitempty,uuid"`
	CheckIn  *time.Time `json:"check_in" time_format:"2006-01-02" time_utc:"1"`
	CheckOut *time.Time `json:"check_out" time_format:"2006-01-02" time_utc:"1"`
}

// ListBookingsRequest defines query parameters for listing bookings.
// Non-staff callers are always scoped to their own bookings.
type ListBookingsRequest struct {
	request.ListParams
	RoomID string     `form:"room_id" binding:"omitempty,uuid"`
	UserID string     `form:"user_id" binding:"omitempty,uuid"`
	Status string     `form:"status" binding:"omitempty,oneof=pending approved checked_in checked_out cancelled"`
	From   *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To     *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

type BookingResponse struct {
	ID              string           `json:"id"`
	Room            roomHttp.RoomTag `json:"room"`
	User            userHttp.UserTag `json:"user"`
	CheckIn         string           `json:"check_in"`
	CheckOut        string           `json:"check_out"`
	Guests          int              `json:"guests"`
	Nights          int              `json:"nights"`
	RoomChargeCents int64            `json:"room_charge_cents"`
	Status          string           `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		Room:            roomHttp.RoomTag{ID: b.RoomID, Name: b.RoomName},
		User:            userHttp.UserTag{ID: b.UserID, Name: b.UserName},
		CheckIn:         b.CheckIn.Format("2006-01-02"),
		CheckOut:        b.CheckOut.Format("2006-01-02"),
		Guests:          b.Guests,
		Nights:          b.Nights,
		RoomChargeCents: b.RoomChargeCents,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
