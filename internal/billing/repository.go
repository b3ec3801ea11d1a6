package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, line *UsageLine) error
	Delete(ctx context.Context, bookingID, usageID string) error
	ListByBooking(ctx context.Context, bookingID string) ([]*UsageLine, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, line *UsageLine) error {
	const query = `
		INSERT INTO public.service_usages
			(booking_id, amenity_id, quantity, unit_price_cents, amount_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		line.BookingID, line.AmenityID, line.Quantity,
		line.UnitPriceCents, line.AmountCents,
	).Scan(&line.ID, &line.CreatedAt)
	if err != nil {
		return fmt.Errorf("create service usage failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, bookingID, usageID string) error {
	const query = `DELETE FROM public.service_usages WHERE id = $1 AND booking_id = $2`
	ct, err := r.pool.Exec(ctx, query, usageID, bookingID)
	if err != nil {
		return fmt.Errorf("delete service usage failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrUsageNotFound
	}
	return nil
}

func (r *pgxRepository) ListByBooking(ctx context.Context, bookingID string) ([]*UsageLine, error) {
	const query = `
		SELECT su.id, su.booking_id, su.amenity_id, a.name,
		       su.quantity, su.unit_price_cents, su.amount_cents, su.created_at
		FROM public.service_usages su
		JOIN public.amenities a ON su.amenity_id = a.id
		WHERE su.booking_id = $1
		ORDER BY su.created_at
	`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("list service usages failed: %w", err)
	}
	defer rows.Close()

	var lines []*UsageLine
	for rows.Next() {
		var line UsageLine
		if err := rows.Scan(
			&line.ID, &line.BookingID, &line.AmenityID, &line.AmenityName,
			&line.Quantity, &line.UnitPriceCents, &line.AmountCents, &line.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service usage failed: %w", err)
		}
		lines = append(lines, &line)
	}
	return lines, nil
}
