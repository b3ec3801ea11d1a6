package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create checks availability and inserts the booking as one atomic
	// unit per room. Returns ErrDateConflict when the interval is taken.
	Create(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// Update persists room/date/charge edits, re-running the availability
	// check (excluding the booking itself) inside the same per-room
	// critical section as Create.
	Update(ctx context.Context, b *Booking) error

	// UpdateStatus performs a compare-and-swap transition; it fails with
	// ErrStatusConflict when the stored status no longer matches from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error

	// HasOverlap checks if there is any live conflicting booking for the
	// room in the given interval. excludeID omits one booking (for edits).
	HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error)

	// BookedRoomIDs returns the ids of rooms with at least one live
	// conflicting booking in the interval.
	BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// lockRoom serializes conflicting writers on the same room for the duration
// of the surrounding transaction. The schema's exclusion constraint is the
// backstop; the advisory lock keeps the common path free of constraint
// errors and retries.
func lockRoom(ctx context.Context, tx pgx.Tx, roomID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, roomID); err != nil {
		return fmt.Errorf("acquire room lock failed: %w", err)
	}
	return nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockRoom(ctx, tx, b.RoomID); err != nil {
		return err
	}

	conflict, err := hasOverlapTx(ctx, tx, b.RoomID, b.CheckIn, b.CheckOut, "")
	if err != nil {
		return err
	}
	if conflict {
		return ErrDateConflict
	}

	const query = `
		INSERT INTO public.bookings
			(room_id, user_id, check_in, check_out, guests, nights, room_charge_cents, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		b.RoomID, b.UserID, b.CheckIn, b.CheckOut, b.Guests, b.Nights,
		b.RoomChargeCents, b.Status, b.CreatedBy,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrDateConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	return tx.Commit(ctx)
}

const bookingSelect = `
	SELECT b.id, b.room_id, r.name, b.user_id, COALESCE(u.display_name, u.email),
	       b.check_in, b.check_out, b.guests, b.nights, b.room_charge_cents,
	       b.status, b.created_by, b.created_at, b.updated_at
	FROM public.bookings b
	JOIN public.rooms r ON b.room_id = r.id
	JOIN public.users u ON b.user_id = u.id
`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.RoomID, &b.RoomName, &b.UserID, &b.UserName,
		&b.CheckIn, &b.CheckOut, &b.Guests, &b.Nights, &b.RoomChargeCents,
		&b.Status, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := bookingSelect + ` WHERE b.id = $1`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.room_id", "r.name", "b.user_id", "COALESCE(u.display_name, u.email)",
		"b.check_in", "b.check_out", "b.guests", "b.nights", "b.room_charge_cents",
		"b.status", "b.created_by", "b.created_at", "b.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.bookings b").
		Join("public.rooms r ON b.room_id = r.id").
		Join("public.users u ON b.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.RoomID != "" {
		query = query.Where(squirrel.Eq{"b.room_id": filter.RoomID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"b.check_out": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"b.check_in": *filter.To})
	}

	query = query.OrderBy("b.check_in DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.RoomID, &b.RoomName, &b.UserID, &b.UserName,
			&b.CheckIn, &b.CheckOut, &b.Guests, &b.Nights, &b.RoomChargeCents,
			&b.Status, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update booking failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockRoom(ctx, tx, b.RoomID); err != nil {
		return err
	}

	conflict, err := hasOverlapTx(ctx, tx, b.RoomID, b.CheckIn, b.CheckOut, b.ID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrDateConflict
	}

	const query = `
		UPDATE public.bookings
		SET room_id = $1, check_in = $2, check_out = $3,
		    nights = $4, room_charge_cents = $5, updated_at = now()
		WHERE id = $6
	`
	ct, err := tx.Exec(ctx, query,
		b.RoomID, b.CheckIn, b.CheckOut, b.Nights, b.RoomChargeCents, b.ID)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrDateConflict
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	const query = `
		UPDATE public.bookings
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`
	ct, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either the booking vanished or someone transitioned it first.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrStatusConflict
	}
	return nil
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func hasOverlapTx(ctx context.Context, q queryer, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	// Overlap on half-open intervals: existing.check_in < new.check_out
	// AND existing.check_out > new.check_in, skipping terminal statuses.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"room_id": roomID}).
		Where(squirrel.NotEq{"status": []string{string(StatusCancelled), string(StatusCheckedOut)}}).
		Where(squirrel.Lt{"check_in": checkOut}).
		Where(squirrel.Gt{"check_out": checkIn})

	if excludeID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	var exists bool
	if err := q.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	return hasOverlapTx(ctx, r.pool, roomID, checkIn, checkOut, excludeID)
}

func (r *pgxRepository) BookedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error) {
	const query = `
		SELECT DISTINCT room_id
		FROM public.bookings
		WHERE status NOT IN ('cancelled', 'checked_out')
		  AND check_in < $2
		  AND check_out > $1
	`
	rows, err := r.pool.Query(ctx, query, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("list booked rooms failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan room id failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
