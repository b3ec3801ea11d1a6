package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pinewood/hotel-booking-backend/internal/pkg/storage"
	"github.com/pinewood/hotel-booking-backend/internal/room"
)

type Service interface {
	Upload(ctx context.Context, roomID string, header *multipart.FileHeader, uploadedBy string) (*Photo, error)
	GetByID(ctx context.Context, id string) (*Photo, error)
	ListByRoom(ctx context.Context, roomID string) ([]*Photo, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	roomService room.Service
	storage     storage.Storage
	imgProc     *storage.ImageProcessor
}

func NewService(repo Repository, roomService room.Service, store storage.Storage) Service {
	return &service{
		repo:        repo,
		roomService: roomService,
		storage:     store,
		imgProc:     storage.NewImageProcessor(),
	}
}

func (s *service) Upload(ctx context.Context, roomID string, header *multipart.FileHeader, uploadedBy string) (*Photo, error) {
	if _, err := s.roomService.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	// Buffer the whole file; room photos are small enough for that.
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file failed: %w", err)
	}

	photoID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	shard := photoID[:2]
	storagePath := fmt.Sprintf("rooms/%s/%s%s", shard, photoID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("save photo failed: %w", err)
	}

	var thumbnailPath *string
	thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 320, 240)
	if err != nil {
		log.Printf("photo: thumbnail for %s failed: %v", photoID, err)
	} else {
		tPath := fmt.Sprintf("rooms/%s/%s_thumb.jpg", shard, photoID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err != nil {
			log.Printf("photo: save thumbnail for %s failed: %v", photoID, err)
		} else {
			thumbnailPath = &tPath
		}
	}

	p := &Photo{
		ID:            photoID,
		RoomID:        roomID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
		UploadedBy:    uploadedBy,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Photo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByRoom(ctx context.Context, roomID string) ([]*Photo, error) {
	return s.repo.ListByRoom(ctx, roomID)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Get(ctx, p.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read photo failed: %w", err)
	}
	return rc, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrNotFound
	}
	rc, err := s.storage.Get(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read thumbnail failed: %w", err)
	}
	return rc, p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, p.StoragePath); err != nil {
		log.Printf("photo: delete blob %s failed: %v", p.StoragePath, err)
	}
	if p.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *p.ThumbnailPath); err != nil {
			log.Printf("photo: delete thumbnail %s failed: %v", *p.ThumbnailPath, err)
		}
	}

	return s.repo.Delete(ctx, id)
}
