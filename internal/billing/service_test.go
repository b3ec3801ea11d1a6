package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinewood/hotel-booking-backend/internal/amenity"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
	"github.com/pinewood/hotel-booking-backend/internal/room"
)

type fakeRepository struct {
	lines  map[string]*UsageLine
	nextID int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{lines: make(map[string]*UsageLine)}
}

func (r *fakeRepository) Create(_ context.Context, line *UsageLine) error {
	r.nextID++
	line.ID = fmt.Sprintf("usage-%d", r.nextID)
	clone := *line
	r.lines[line.ID] = &clone
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, bookingID, usageID string) error {
	line, ok := r.lines[usageID]
	if !ok || line.BookingID != bookingID {
		return ErrUsageNotFound
	}
	delete(r.lines, usageID)
	return nil
}

func (r *fakeRepository) ListByBooking(_ context.Context, bookingID string) ([]*UsageLine, error) {
	var out []*UsageLine
	for _, line := range r.lines {
		if line.BookingID == bookingID {
			clone := *line
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeBookingService struct {
	booking.Service
	bookings map[string]*booking.Booking
}

func (s *fakeBookingService) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return b, nil
}

type fakeAmenityService struct {
	amenity.Service
	amenities map[string]*amenity.Amenity
}

func (s *fakeAmenityService) GetByID(_ context.Context, id string) (*amenity.Amenity, error) {
	a, ok := s.amenities[id]
	if !ok {
		return nil, amenity.ErrNotFound
	}
	return a, nil
}

type fakeRoomService struct {
	room.Service
	rooms map[string]*room.Room
}

func (s *fakeRoomService) GetByID(_ context.Context, id string) (*room.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, room.ErrNotFound
	}
	return r, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	repo      *fakeRepository
	bookings  *fakeBookingService
	amenities *fakeAmenityService
	rooms     *fakeRoomService
	svc       Service
}

func newFixture() *fixture {
	repo := newFakeRepository()
	bookings := &fakeBookingService{bookings: map[string]*booking.Booking{
		"booking-1": {
			ID:     "booking-1",
			RoomID: "room-1",
			UserID: "user-1",
			CheckIn: date(2026, 4, 10), CheckOut: date(2026, 4, 12),
			Nights:          2,
			RoomChargeCents: 20000,
			Status:          booking.StatusApproved,
		},
	}}
	amenities := &fakeAmenityService{amenities: map[string]*amenity.Amenity{
		"laundry":   {ID: "laundry", Name: "Laundry", PriceCents: 5000, IsActive: true},
		"breakfast": {ID: "breakfast", Name: "Breakfast", PriceCents: 2500, IsActive: true},
		"retired":   {ID: "retired", Name: "Old Spa", PriceCents: 9000, IsActive: false},
	}}
	rooms := &fakeRoomService{rooms: map[string]*room.Room{
		"room-1": {ID: "room-1", Name: "Garden View 101", RateCents: 10000, Capacity: 2},
	}}
	return &fixture{
		repo:      repo,
		bookings:  bookings,
		amenities: amenities,
		rooms:     rooms,
		svc:       NewService(repo, bookings, amenities, rooms),
	}
}

func TestQuoteRoomOnly(t *testing.T) {
	f := newFixture()

	q, err := f.svc.QuoteByID(context.Background(), "booking-1")
	require.NoError(t, err)

	// Two nights at the current nightly rate, no services.
	assert.Equal(t, int64(20000), q.RoomCents)
	assert.Equal(t, int64(0), q.ServicesCents)
	assert.Equal(t, int64(20000), q.TotalCents)
}

func TestAttachAndQuote(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	line, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "laundry", Quantity: 2}, "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), line.UnitPriceCents)
	assert.Equal(t, int64(10000), line.AmountCents)

	_, err = f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "breakfast", Quantity: 2}, "user-1", false)
	require.NoError(t, err)

	q, err := f.svc.QuoteByID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), q.RoomCents)
	assert.Equal(t, int64(15000), q.ServicesCents)
	assert.Equal(t, int64(35000), q.TotalCents)
}

func TestAttachFreezesPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	line, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "laundry", Quantity: 1}, "user-1", false)
	require.NoError(t, err)

	// Catalog price changes after the fact; the recorded line keeps its
	// original amount.
	f.amenities.amenities["laundry"].PriceCents = 99999

	q, err := f.svc.QuoteByID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, line.AmountCents, q.ServicesCents)
	assert.Equal(t, int64(5000), q.ServicesCents)
}

func TestQuoteUsesCurrentRoomRate(t *testing.T) {
	f := newFixture()

	f.rooms.rooms["room-1"].RateCents = 12000

	q, err := f.svc.QuoteByID(context.Background(), "booking-1")
	require.NoError(t, err)
	assert.Equal(t, int64(24000), q.RoomCents)
}

func TestAttachGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects inactive amenity", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "retired", Quantity: 1}, "user-1", false)
		assert.ErrorIs(t, err, amenity.ErrInactive)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "laundry", Quantity: 0}, "user-1", false)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("rejects closed booking", func(t *testing.T) {
		f := newFixture()
		f.bookings.bookings["booking-1"].Status = booking.StatusCheckedOut
		_, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "laundry", Quantity: 1}, "user-1", false)
		assert.ErrorIs(t, err, ErrBookingClosed)
	})

	t.Run("rejects other customers", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "laundry", Quantity: 1}, "user-2", false)
		assert.ErrorIs(t, err, booking.ErrPermissionDenied)
	})

	t.Run("staff may attach to any booking", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "laundry", Quantity: 1}, "staff-1", true)
		assert.NoError(t, err)
	})
}

func TestDetach(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	line, err := f.svc.Attach(ctx, "booking-1", AttachRequest{AmenityID: "laundry", Quantity: 1}, "user-1", false)
	require.NoError(t, err)

	require.NoError(t, f.svc.Detach(ctx, "booking-1", line.ID, "user-1", false))

	q, err := f.svc.QuoteByID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.ServicesCents)

	assert.ErrorIs(t, f.svc.Detach(ctx, "booking-1", line.ID, "user-1", false), ErrUsageNotFound)
}
