package http

import (
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/photo"
)

type PhotoResponse struct {
	ID           string    `json:"id"`
	RoomID       string    `json:"room_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	HasThumbnail bool      `json:"has_thumbnail"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPhotoResponse(p *photo.Photo) PhotoResponse {
	return PhotoResponse{
		ID:           p.ID,
		RoomID:       p.RoomID,
		Filename:     p.Filename,
		ContentType:  p.ContentType,
		Size:         p.Size,
		HasThumbnail: p.ThumbnailPath != nil,
		CreatedAt:    p.CreatedAt,
	}
}
