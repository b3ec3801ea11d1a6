package http

import (
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/pkg/request"
	"github.com/pinewood/hotel-booking-backend/internal/room"
)

// ListRoomsRequest defines query parameters for listing rooms.
type ListRoomsRequest struct {
	request.ListParams
	Status string `form:"status" binding:"omitempty,oneof=available reserved out_of_service"`
}

// AvailabilityRequest defines the date interval for availability queries.
// Dates are day-granular; the interval is half-open [check_in, check_out).
type AvailabilityRequest struct {
	CheckIn  time.Time `form:"check_in" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	CheckOut time.Time `form:"check_out" binding:"required" time_format:"2006-01-02" time_utc:"1"`
}

type CreateRoomBody struct {
	Name      string `json:"name" binding:"required"`
	RateCents int64  `json:"rate_cents" binding:"min=0"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
}

type UpdateRoomBody struct {
	Name      *string `json:"name"`
	RateCents *int64  `json:"rate_cents"`
	Capacity  *int    `json:"capacity"`
	Status    *string `json:"status" binding:"omitempty,oneof=available reserved out_of_service"`
}

type RoomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RateCents int64     `json:"rate_cents"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomTag is a brief representation of a room.
type RoomTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewRoomResponse(r *room.Room) RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		RateCents: r.RateCents,
		Capacity:  r.Capacity,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AvailabilityResponse answers a single-room availability query.
type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	Available bool   `json:"available"`
}

// UnavailableRoomsResponse lists rooms with at least one conflicting
// reservation in the requested interval.
type UnavailableRoomsResponse struct {
	RoomIDs []string `json:"room_ids"`
}
