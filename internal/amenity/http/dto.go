package http

import (
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/amenity"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/request"
)

// ListAmenitiesRequest defines query parameters for listing amenities.
type ListAmenitiesRequest struct {
	request.ListParams
	ActiveOnly bool `form:"active_only"`
}

type CreateAmenityBody struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
}

type UpdateAmenityBody struct {
	Name       *string `json:"name"`
	PriceCents *int64  `json:"price_cents"`
	IsActive   *bool   `json:"is_active"`
}

type AmenityResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewAmenityResponse(a *amenity.Amenity) AmenityResponse {
	return AmenityResponse{
		ID:         a.ID,
		Name:       a.Name,
		PriceCents: a.PriceCents,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
