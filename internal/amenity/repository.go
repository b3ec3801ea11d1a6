package amenity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, a *Amenity) error
	GetByID(ctx context.Context, id string) (*Amenity, error)
	List(ctx context.Context, filter Filter) ([]*Amenity, int, error)
	Update(ctx context.Context, a *Amenity) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, a *Amenity) error {
	const query = `
		INSERT INTO public.amenities (name, price_cents, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, a.Name, a.PriceCents, a.IsActive).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create amenity failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Amenity, error) {
	const query = `
		SELECT id, name, price_cents, is_active, created_at, updated_at
		FROM public.amenities
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var a Amenity
	if err := row.Scan(&a.ID, &a.Name, &a.PriceCents, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get amenity failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Amenity, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "price_cents", "is_active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.amenities")

	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	query = query.OrderBy("name ASC")

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
		return nil, 0, fmt.Errorf("build list amenities query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list amenities failed: %w", err)
	}
	defer rows.Close()

	var amenities []*Amenity
	var total int

	for rows.Next() {
		var a Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.PriceCents, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan amenity failed: %w", err)
		}
		amenities = append(amenities, &a)
	}

	return amenities, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, a *Amenity) error {
	const query = `
		UPDATE public.amenities
		SET name = $1, price_cents = $2, is_active = $3, updated_at = now()
		WHERE id = $4
	`
	ct, err := r.pool.Exec(ctx, query, a.Name, a.PriceCents, a.IsActive, a.ID)
	if err != nil {
		return fmt.Errorf("update amenity failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.amenities WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete amenity failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
