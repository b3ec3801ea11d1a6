package http

import (
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/billing"
)

type AttachServiceBody struct {
	AmenityID string `json:"amenity_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UsageLineResponse struct {
	ID             string    `json:"id"`
	BookingID      string    `json:"booking_id"`
	AmenityID      string    `json:"amenity_id"`
	AmenityName    string    `json:"amenity_name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	AmountCents    int64     `json:"amount_cents"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewUsageLineResponse(line *billing.UsageLine) UsageLineResponse {
	return UsageLineResponse{
		ID:             line.ID,
		BookingID:      line.BookingID,
		AmenityID:      line.AmenityID,
		AmenityName:    line.AmenityName,
		Quantity:       line.Quantity,
		UnitPriceCents: line.UnitPriceCents,
		AmountCents:    line.AmountCents,
		CreatedAt:      line.CreatedAt,
	}
}
