package billing

import (
	"context"
	"errors"

	"github.com/pinewood/hotel-booking-backend/internal/amenity"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
	"github.com/pinewood/hotel-booking-backend/internal/room"
)

type AttachRequest struct {
	AmenityID string
	Quantity  int
}

type Service interface {
	// Attach records a consumed service against a live booking, freezing
	// the unit price at the current catalog value.
	Attach(ctx context.Context, bookingID string, req AttachRequest, actorID string, privileged bool) (*UsageLine, error)

	Detach(ctx context.Context, bookingID, usageID string, actorID string, privileged bool) error
	ListUsage(ctx context.Context, bookingID string, actorID string, privileged bool) ([]*UsageLine, error)

	// QuoteByID computes the current billing total for a booking:
	// room rate x nights plus the sum of frozen usage amounts.
	QuoteByID(ctx context.Context, bookingID string) (*Quote, error)

	// QuoteFor is QuoteByID for an already-loaded booking.
	QuoteFor(ctx context.Context, b *booking.Booking) (*Quote, error)
}

type service struct {
	repo           Repository
	bookingService booking.Service
	amenityService amenity.Service
	roomService    room.Service
}

func NewService(repo Repository, bookingService booking.Service, amenityService amenity.Service, roomService room.Service) Service {
	return &service{
		repo:           repo,
		bookingService: bookingService,
		amenityService: amenityService,
		roomService:    roomService,
	}
}

// loadBooking fetches the booking and enforces owner-or-staff access.
func (s *service) loadBooking(ctx context.Context, bookingID, actorID string, privileged bool) (*booking.Booking, error) {
	b, err := s.bookingService.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !privileged && b.UserID != actorID {
		return nil, booking.ErrPermissionDenied
	}
	return b, nil
}

func (s *service) Attach(ctx context.Context, bookingID string, req AttachRequest, actorID string, privileged bool) (*UsageLine, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	b, err := s.loadBooking(ctx, bookingID, actorID, privileged)
	if err != nil {
		return nil, err
	}
	if !b.Status.Live() {
		return nil, ErrBookingClosed
	}

	a, err := s.amenityService.GetByID(ctx, req.AmenityID)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, amenity.ErrInactive
	}

	line := &UsageLine{
		BookingID:      b.ID,
		AmenityID:      a.ID,
		AmenityName:    a.Name,
		Quantity:       req.Quantity,
		UnitPriceCents: a.PriceCents,
		AmountCents:    a.PriceCents * int64(req.Quantity),
	}

	if err := s.repo.Create(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *service) Detach(ctx context.Context, bookingID, usageID string, actorID string, privileged bool) error {
	b, err := s.loadBooking(ctx, bookingID, actorID, privileged)
	if err != nil {
		return err
	}
	if !b.Status.Live() {
		return ErrBookingClosed
	}

	return s.repo.Delete(ctx, bookingID, usageID)
}

func (s *service) ListUsage(ctx context.Context, bookingID string, actorID string, privileged bool) ([]*UsageLine, error) {
	if _, err := s.loadBooking(ctx, bookingID, actorID, privileged); err != nil {
		return nil, err
	}
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *service) QuoteByID(ctx context.Context, bookingID string) (*Quote, error) {
	b, err := s.bookingService.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.QuoteFor(ctx, b)
}

func (s *service) QuoteFor(ctx context.Context, b *booking.Booking) (*Quote, error) {
	rm, err := s.roomService.GetByID(ctx, b.RoomID)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, booking.ErrRoomNotFound
		}
		return nil, err
	}

	lines, err := s.repo.ListByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	var servicesCents int64
	for _, line := range lines {
		servicesCents += line.AmountCents
	}

	roomCents := rm.RateCents * int64(b.Nights)

	return &Quote{
		Nights:        b.Nights,
		RateCents:     rm.RateCents,
		RoomCents:     roomCents,
		ServicesCents: servicesCents,
		TotalCents:    roomCents + servicesCents,
	}, nil
}
