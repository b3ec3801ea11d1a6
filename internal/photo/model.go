package photo

import (
	"net/http"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "photo not found")
	ErrNotAnImage   = apperror.New(http.StatusBadRequest, "uploaded file is not an image")
	ErrRoomNotFound = apperror.New(http.StatusNotFound, "room not found")
)

// Photo is an image attached to a room's listing.
type Photo struct {
	ID            string
	RoomID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	UploadedBy    string
	CreatedAt     time.Time
}
