package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinewood/hotel-booking-backend/internal/room"
)

// fakeRepository keeps bookings in memory and mirrors the conflict rules the
// real repository enforces in SQL.
type fakeRepository struct {
	bookings map[string]*Booking
	nextID   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bookings: make(map[string]*Booking)}
}

func (r *fakeRepository) Create(_ context.Context, b *Booking) error {
	for _, other := range r.bookings {
		if other.RoomID == b.RoomID && other.Status.Live() &&
			Overlaps(other.CheckIn, other.CheckOut, b.CheckIn, b.CheckOut) {
			return ErrDateConflict
		}
	}
	r.nextID++
	b.ID = fmt.Sprintf("booking-%d", r.nextID)
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepository) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepository) Update(_ context.Context, b *Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	for _, other := range r.bookings {
		if other.ID != b.ID && other.RoomID == b.RoomID && other.Status.Live() &&
			Overlaps(other.CheckIn, other.CheckOut, b.CheckIn, b.CheckOut) {
			return ErrDateConflict
		}
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeRepository) UpdateStatus(_ context.Context, id string, from, to Status) error {
	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return ErrStatusConflict
	}
	b.Status = to
	return nil
}

func (r *fakeRepository) HasOverlap(_ context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	for _, b := range r.bookings {
		if b.ID == excludeID || b.RoomID != roomID || !b.Status.Live() {
			continue
		}
		if Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) BookedRoomIDs(_ context.Context, checkIn, checkOut time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, b := range r.bookings {
		if !b.Status.Live() || seen[b.RoomID] {
			continue
		}
		if Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			seen[b.RoomID] = true
			ids = append(ids, b.RoomID)
		}
	}
	return ids, nil
}

// fakeRoomService serves a fixed room catalog and records status flips.
type fakeRoomService struct {
	room.Service
	rooms    map[string]*room.Room
	statuses []room.OperationalStatus
}

func newFakeRoomService(rooms ...*room.Room) *fakeRoomService {
	m := make(map[string]*room.Room)
	for _, r := range rooms {
		m[r.ID] = r
	}
	return &fakeRoomService{rooms: m}
}

func (s *fakeRoomService) GetByID(_ context.Context, id string) (*room.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, room.ErrNotFound
	}
	return r, nil
}

func (s *fakeRoomService) SetOperationalStatus(_ context.Context, id string, status room.OperationalStatus) error {
	r, ok := s.rooms[id]
	if !ok {
		return room.ErrNotFound
	}
	r.Status = status
	s.statuses = append(s.statuses, status)
	return nil
}

func standardRoom() *room.Room {
	return &room.Room{
		ID:        "room-1",
		Name:      "Garden View 101",
		RateCents: 10000,
		Capacity:  2,
		Status:    room.StatusAvailable,
	}
}

func newTestService(rooms *fakeRoomService) (*fakeRepository, Service, *time.Time) {
	repo := newFakeRepository()
	svc := NewService(repo, rooms, nil).(*service)
	now := date(2026, 3, 1)
	svc.now = func() time.Time { return now }
	return repo, svc, &now
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("self-service booking starts pending", func(t *testing.T) {
		_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

		b, err := svc.Create(ctx, CreateRequest{
			UserID:   "user-1",
			RoomID:   "room-1",
			CheckIn:  date(2026, 3, 10),
			CheckOut: date(2026, 3, 12),
			Guests:   2,
		})
		require.NoError(t, err)

		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, 2, b.Nights)
		assert.Equal(t, int64(20000), b.RoomChargeCents)
	})

	t.Run("staff booking is approved immediately", func(t *testing.T) {
		_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

		b, err := svc.Create(ctx, CreateRequest{
			UserID:     "staff-1",
			RoomID:     "room-1",
			CheckIn:    date(2026, 3, 10),
			CheckOut:   date(2026, 3, 11),
			Guests:     1,
			Privileged: true,
		})
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, b.Status)
	})

	t.Run("rejects overlapping dates", func(t *testing.T) {
		_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

		_, err := svc.Create(ctx, CreateRequest{
			UserID: "user-1", RoomID: "room-1",
			CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 15), Guests: 1,
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			UserID: "user-2", RoomID: "room-1",
			CheckIn: date(2026, 3, 12), CheckOut: date(2026, 3, 14), Guests: 1,
		})
		assert.ErrorIs(t, err, ErrDateConflict)
	})

	t.Run("allows back-to-back stays", func(t *testing.T) {
		_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

		_, err := svc.Create(ctx, CreateRequest{
			UserID: "user-1", RoomID: "room-1",
			CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
		})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			UserID: "user-2", RoomID: "room-1",
			CheckIn: date(2026, 3, 12), CheckOut: date(2026, 3, 14), Guests: 1,
		})
		assert.NoError(t, err)
	})

	t.Run("validation failures", func(t *testing.T) {
		_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

		_, err := svc.Create(ctx, CreateRequest{
			UserID: "u", RoomID: "room-1",
			CheckIn: date(2026, 3, 12), CheckOut: date(2026, 3, 10), Guests: 1,
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)

		_, err = svc.Create(ctx, CreateRequest{
			UserID: "u", RoomID: "room-1",
			CheckIn: date(2026, 2, 20), CheckOut: date(2026, 2, 22), Guests: 1,
		})
		assert.ErrorIs(t, err, ErrCheckInPast)

		_, err = svc.Create(ctx, CreateRequest{
			UserID: "u", RoomID: "room-1",
			CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 0,
		})
		assert.ErrorIs(t, err, ErrInvalidGuests)

		_, err = svc.Create(ctx, CreateRequest{
			UserID: "u", RoomID: "room-1",
			CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 3,
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)

		_, err = svc.Create(ctx, CreateRequest{
			UserID: "u", RoomID: "missing",
			CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
		})
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("rejects room out of service", func(t *testing.T) {
		rm := standardRoom()
		rm.Status = room.StatusOutOfService
		_, svc, _ := newTestService(newFakeRoomService(rm))

		_, err := svc.Create(ctx, CreateRequest{
			UserID: "u", RoomID: "room-1",
			CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
		})
		assert.ErrorIs(t, err, ErrRoomOutOfService)
	})
}

func TestCancelThenRebook(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

	first, err := svc.Create(ctx, CreateRequest{
		UserID: "user-1", RoomID: "room-1",
		CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
	})
	require.NoError(t, err)

	// Same dates are blocked while the first booking is live.
	_, err = svc.Create(ctx, CreateRequest{
		UserID: "user-2", RoomID: "room-1",
		CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
	})
	require.ErrorIs(t, err, ErrDateConflict)

	_, err = svc.Cancel(ctx, first.ID, "user-1", false)
	require.NoError(t, err)

	// Cancelled bookings free the calendar immediately.
	second, err := svc.Create(ctx, CreateRequest{
		UserID: "user-2", RoomID: "room-1",
		CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, second.Status)
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeRoomService, Service, *time.Time, *Booking) {
		rooms := newFakeRoomService(standardRoom())
		_, svc, now := newTestService(rooms)
		b, err := svc.Create(ctx, CreateRequest{
			UserID: "user-1", RoomID: "room-1",
			CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
		})
		require.NoError(t, err)
		return rooms, svc, now, b
	}

	t.Run("approve then check in marks room reserved", func(t *testing.T) {
		rooms, svc, now, b := setup(t)

		_, err := svc.Approve(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)

		*now = date(2026, 3, 10)
		got, err := svc.CheckIn(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedIn, got.Status)
		assert.Equal(t, room.StatusReserved, rooms.rooms["room-1"].Status)
	})

	t.Run("check-in requires approval first", func(t *testing.T) {
		_, svc, now, b := setup(t)

		*now = date(2026, 3, 10)
		_, err := svc.CheckIn(ctx, b.ID, "staff-1", true)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("check-in outside the window is rejected", func(t *testing.T) {
		_, svc, now, b := setup(t)

		_, err := svc.Approve(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)

		*now = date(2026, 3, 5)
		_, err = svc.CheckIn(ctx, b.ID, "staff-1", true)
		assert.ErrorIs(t, err, ErrCheckInWindow)

		// One day early is allowed.
		*now = date(2026, 3, 9)
		_, err = svc.CheckIn(ctx, b.ID, "staff-1", true)
		assert.NoError(t, err)
	})

	t.Run("check-out releases a free room", func(t *testing.T) {
		rooms, svc, now, b := setup(t)

		_, err := svc.Approve(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)
		*now = date(2026, 3, 10)
		_, err = svc.CheckIn(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)

		*now = date(2026, 3, 12)
		got, err := svc.CheckOut(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedOut, got.Status)
		assert.Equal(t, room.StatusAvailable, rooms.rooms["room-1"].Status)
	})

	t.Run("check-out keeps room reserved for a back-to-back stay", func(t *testing.T) {
		rooms, svc, now, b := setup(t)

		_, err := svc.Approve(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)
		*now = date(2026, 3, 10)
		_, err = svc.CheckIn(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)

		// Next guest arrives the same day the first leaves.
		_, err = svc.Create(ctx, CreateRequest{
			UserID: "user-2", RoomID: "room-1",
			CheckIn: date(2026, 3, 12), CheckOut: date(2026, 3, 14), Guests: 1, Privileged: true,
		})
		require.NoError(t, err)

		*now = date(2026, 3, 12)
		_, err = svc.CheckOut(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)
		assert.Equal(t, room.StatusReserved, rooms.rooms["room-1"].Status)
	})

	t.Run("cancel after check-in is rejected", func(t *testing.T) {
		_, svc, now, b := setup(t)

		_, err := svc.Approve(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)
		*now = date(2026, 3, 10)
		_, err = svc.CheckIn(ctx, b.ID, "staff-1", true)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, b.ID, "user-1", false)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("transitions require staff", func(t *testing.T) {
		_, svc, _, b := setup(t)

		_, err := svc.Approve(ctx, b.ID, "user-1", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		_, err = svc.CheckIn(ctx, b.ID, "user-1", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
		_, err = svc.CheckOut(ctx, b.ID, "user-1", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("cancel by another customer is rejected", func(t *testing.T) {
		_, svc, _, b := setup(t)

		_, err := svc.Cancel(ctx, b.ID, "user-2", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestApproveRechecksAvailability(t *testing.T) {
	ctx := context.Background()
	rooms := newFakeRoomService(standardRoom())
	repo, svc, _ := newTestService(rooms)

	first, err := svc.Create(ctx, CreateRequest{
		UserID: "user-1", RoomID: "room-1",
		CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
	})
	require.NoError(t, err)

	// A conflicting booking that slipped in (e.g. created before the
	// exclusion constraint could see the first one as approved).
	repo.bookings["intruder"] = &Booking{
		ID: "intruder", RoomID: "room-1", UserID: "user-2",
		CheckIn: date(2026, 3, 11), CheckOut: date(2026, 3, 13),
		Status: StatusApproved,
	}

	_, err = svc.Approve(ctx, first.ID, "staff-1", true)
	assert.ErrorIs(t, err, ErrDateConflict)
}

func TestIsAvailable(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

	_, err := svc.Create(ctx, CreateRequest{
		UserID: "user-1", RoomID: "room-1",
		CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
	})
	require.NoError(t, err)

	free, err := svc.IsAvailable(ctx, "room-1", date(2026, 3, 10), date(2026, 3, 12), "")
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.IsAvailable(ctx, "room-1", date(2026, 3, 12), date(2026, 3, 14), "")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestUpdateBooking(t *testing.T) {
	ctx := context.Background()
	_, svc, _ := newTestService(newFakeRoomService(standardRoom()))

	b, err := svc.Create(ctx, CreateRequest{
		UserID: "user-1", RoomID: "room-1",
		CheckIn: date(2026, 3, 10), CheckOut: date(2026, 3, 12), Guests: 1,
	})
	require.NoError(t, err)

	t.Run("extending the stay recomputes the charge", func(t *testing.T) {
		newOut := date(2026, 3, 14)
		got, err := svc.Update(ctx, b.ID, UpdateRequest{CheckOut: &newOut}, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Nights)
		assert.Equal(t, int64(40000), got.RoomChargeCents)
	})

	t.Run("other customers cannot edit", func(t *testing.T) {
		newOut := date(2026, 3, 13)
		_, err := svc.Update(ctx, b.ID, UpdateRequest{CheckOut: &newOut}, "user-2", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}
