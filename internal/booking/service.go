package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/notify"
	"github.com/pinewood/hotel-booking-backend/internal/room"
)

type CreateRequest struct {
	UserID   string
	RoomID   string
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int

	// Privileged creators (staff/admin) get an immediately approved
	// booking; self-service requests start as pending.
	Privileged bool
}

type UpdateRequest struct {
	RoomID   *string
	CheckIn  *time.Time
	CheckOut *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string, privileged bool) (*Booking, error)

	Approve(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error)
	CheckIn(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error)
	CheckOut(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error)
	Cancel(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error)

	// IsAvailable answers whether the room can take a new reservation over
	// [checkIn, checkOut). excludeID omits one booking from the conflict
	// set (used while editing that booking). Side-effect free.
	IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error)

	// BookedRoomIDs returns the rooms with at least one conflicting
	// reservation in the interval.
	BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error)
}

type service struct {
	repo        Repository
	roomService room.Service
	notifier    notify.Publisher

	now func() time.Time
}

func NewService(repo Repository, roomService room.Service, notifier notify.Publisher) Service {
	return &service{
		repo:        repo,
		roomService: roomService,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if req.Guests < 1 {
		return nil, ErrInvalidGuests
	}

	checkIn := DateOf(req.CheckIn)
	checkOut := DateOf(req.CheckOut)

	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	if checkIn.Before(DateOf(s.now())) {
		return nil, ErrCheckInPast
	}

	rm, err := s.roomService.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if rm.Status == room.StatusOutOfService {
		return nil, ErrRoomOutOfService
	}
	if req.Guests > rm.Capacity {
		return nil, ErrCapacityExceeded
	}

	status := StatusPending
	if req.Privileged {
		status = StatusApproved
	}

	nights := NightsBetween(checkIn, checkOut)

	b := &Booking{
		RoomID:          req.RoomID,
		UserID:          req.UserID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		Nights:          nights,
		RoomChargeCents: rm.RateCents * int64(nights),
		Status:          status,
		CreatedBy:       req.UserID,
	}

	// The repository performs the availability check and the insert as one
	// atomic unit per room; a concurrent winner surfaces as ErrDateConflict.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, notify.TopicBookingCreated, b)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string, privileged bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !privileged && b.UserID != actorID {
		return nil, ErrPermissionDenied
	}

	// Room and dates may only change before the stay begins.
	if b.Status != StatusPending && b.Status != StatusApproved {
		return nil, ErrStatusConflict
	}

	newRoomID := b.RoomID
	if req.RoomID != nil {
		newRoomID = *req.RoomID
	}
	newCheckIn := b.CheckIn
	if req.CheckIn != nil {
		newCheckIn = DateOf(*req.CheckIn)
	}
	newCheckOut := b.CheckOut
	if req.CheckOut != nil {
		newCheckOut = DateOf(*req.CheckOut)
	}

	if !newCheckOut.After(newCheckIn) {
		return nil, ErrInvalidDateRange
	}
	if req.CheckIn != nil && newCheckIn.Before(DateOf(s.now())) {
		return nil, ErrCheckInPast
	}

	rm, err := s.roomService.GetByID(ctx, newRoomID)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if newRoomID != b.RoomID {
		if rm.Status == room.StatusOutOfService {
			return nil, ErrRoomOutOfService
		}
		if b.Guests > rm.Capacity {
			return nil, ErrCapacityExceeded
		}
	}

	nights := NightsBetween(newCheckIn, newCheckOut)

	b.RoomID = newRoomID
	b.CheckIn = newCheckIn
	b.CheckOut = newCheckOut
	b.Nights = nights
	b.RoomChargeCents = rm.RateCents * int64(nights)

	// Atomic re-check excluding this booking's own interval.
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *service) Approve(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error) {
	if !privileged {
		return nil, ErrPermissionDenied
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrStatusConflict
	}

	// Time has passed since creation; an earlier approval elsewhere may
	// have taken these dates. Re-check before committing.
	conflict, err := s.repo.HasOverlap(ctx, b.RoomID, b.CheckIn, b.CheckOut, b.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrDateConflict
	}

	if err := s.transition(ctx, b, StatusApproved); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) CheckIn(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error) {
	if !privileged {
		return nil, ErrPermissionDenied
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusApproved {
		return nil, ErrStatusConflict
	}
	if !CheckInWindowOpen(s.now(), b.CheckIn, b.CheckOut) {
		return nil, ErrCheckInWindow
	}

	if err := s.transition(ctx, b, StatusCheckedIn); err != nil {
		return nil, err
	}

	// Derived catalog marker; the calendar stays authoritative either way.
	if err := s.roomService.SetOperationalStatus(ctx, b.RoomID, room.StatusReserved); err != nil {
		log.Printf("booking: failed to mark room %s reserved: %v", b.RoomID, err)
	}

	return b, nil
}

func (s *service) CheckOut(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error) {
	if !privileged {
		return nil, ErrPermissionDenied
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusCheckedIn {
		return nil, ErrStatusConflict
	}

	if err := s.transition(ctx, b, StatusCheckedOut); err != nil {
		return nil, err
	}

	// Release the room only if no other live reservation overlaps the
	// checkout date; a back-to-back stay keeps the marker as-is.
	today := DateOf(s.now())
	busy, err := s.repo.HasOverlap(ctx, b.RoomID, today, today.AddDate(0, 0, 1), b.ID)
	if err != nil {
		log.Printf("booking: release scan for room %s failed: %v", b.RoomID, err)
		return b, nil
	}
	if !busy {
		if err := s.roomService.SetOperationalStatus(ctx, b.RoomID, room.StatusAvailable); err != nil {
			log.Printf("booking: failed to release room %s: %v", b.RoomID, err)
		}
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string, actorID string, privileged bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !privileged && b.UserID != actorID {
		return nil, ErrPermissionDenied
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, ErrStatusConflict
	}

	if err := s.transition(ctx, b, StatusCancelled); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	checkIn = DateOf(checkIn)
	checkOut = DateOf(checkOut)
	if !checkOut.After(checkIn) {
		return false, nil
	}

	rm, err := s.roomService.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, room.ErrNotFound) {
			return false, ErrRoomNotFound
		}
		return false, err
	}
	if rm.Status == room.StatusOutOfService {
		return false, nil
	}

	conflict, err := s.repo.HasOverlap(ctx, roomID, checkIn, checkOut, excludeID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

func (s *service) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error) {
	checkIn = DateOf(checkIn)
	checkOut = DateOf(checkOut)
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	return s.repo.BookedRoomIDs(ctx, checkIn, checkOut)
}

// transition applies a guarded status change. The repository performs a
// compare-and-swap on the current status so concurrent transitions cannot
// both win.
func (s *service) transition(ctx context.Context, b *Booking, to Status) error {
	if !CanTransition(b.Status, to) {
		return ErrStatusConflict
	}
	if err := s.repo.UpdateStatus(ctx, b.ID, b.Status, to); err != nil {
		return err
	}
	b.Status = to
	s.publish(ctx, notify.TopicBookingStatus, b)
	return nil
}

func (s *service) publish(ctx context.Context, topic string, b *Booking) {
	if s.notifier == nil {
		return
	}
	event := map[string]any{
		"booking_id": b.ID,
		"room_id":    b.RoomID,
		"user_id":    b.UserID,
		"status":     string(b.Status),
		"check_in":   b.CheckIn.Format("2006-01-02"),
		"check_out":  b.CheckOut.Format("2006-01-02"),
	}
	if err := s.notifier.Publish(ctx, topic, event); err != nil {
		log.Printf("booking: notify %s failed: %v", topic, err)
	}
}
