package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create validates the amount against the booking's total under a
	// per-booking lock and inserts the payment. The first payment's
	// invoice number sticks; later payments inherit it.
	Create(ctx context.Context, p *Payment, totalCents int64) error

	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByExternalTxnID(ctx context.Context, txnID string) (*Payment, error)

	// Finalize moves a pending payment to a terminal status. It fails
	// with ErrAlreadyFinalized when the payment is no longer pending.
	Finalize(ctx context.Context, id string, to Status, paidAt *time.Time) error

	ListByBooking(ctx context.Context, bookingID string) ([]*Payment, error)
	TotalPaid(ctx context.Context, bookingID string) (int64, error)
	InvoiceNoForBooking(ctx context.Context, bookingID string) (string, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const paymentColumns = `id, booking_id, method, amount_cents, status, invoice_no,
	external_txn_id, recorded_by, paid_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	if err := row.Scan(
		&p.ID, &p.BookingID, &p.Method, &p.AmountCents, &p.Status, &p.InvoiceNo,
		&p.ExternalTxnID, &p.RecordedBy, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan payment failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Payment, totalCents int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create payment failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize payments on the same booking so two concurrent entries
	// cannot jointly exceed the bill.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, p.BookingID); err != nil {
		return fmt.Errorf("acquire booking lock failed: %w", err)
	}

	// Pending gateway sessions reserve their amount until they resolve.
	var committed int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM public.payments
		WHERE booking_id = $1 AND status IN ('paid', 'pending')
	`, p.BookingID).Scan(&committed)
	if err != nil {
		return fmt.Errorf("sum payments failed: %w", err)
	}

	if committed+p.AmountCents > totalCents {
		return ErrExceedsBalance
	}

	var existingInvoiceNo string
	err = tx.QueryRow(ctx, `
		SELECT invoice_no FROM public.payments
		WHERE booking_id = $1
		ORDER BY created_at
		LIMIT 1
	`, p.BookingID).Scan(&existingInvoiceNo)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("load invoice number failed: %w", err)
	}
	if existingInvoiceNo != "" {
		p.InvoiceNo = existingInvoiceNo
	}

	const query = `
		INSERT INTO public.payments
			(booking_id, method, amount_cents, status, invoice_no, external_txn_id, recorded_by, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		p.BookingID, p.Method, p.AmountCents, p.Status, p.InvoiceNo,
		p.ExternalTxnID, p.RecordedBy, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create payment failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM public.payments WHERE id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) GetByExternalTxnID(ctx context.Context, txnID string) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM public.payments WHERE external_txn_id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, txnID))
}

func (r *pgxRepository) Finalize(ctx context.Context, id string, to Status, paidAt *time.Time) error {
	const query = `
		UPDATE public.payments
		SET status = $1, paid_at = $2, updated_at = now()
		WHERE id = $3 AND status = 'pending'
	`
	ct, err := r.pool.Exec(ctx, query, to, paidAt, id)
	if err != nil {
		return fmt.Errorf("finalize payment failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyFinalized
	}
	return nil
}

func (r *pgxRepository) ListByBooking(ctx context.Context, bookingID string) ([]*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM public.payments WHERE booking_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list payments failed: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *pgxRepository) TotalPaid(ctx context.Context, bookingID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM public.payments
		WHERE booking_id = $1 AND status = 'paid'
	`, bookingID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum paid payments failed: %w", err)
	}
	return total, nil
}

func (r *pgxRepository) InvoiceNoForBooking(ctx context.Context, bookingID string) (string, error) {
	var invoiceNo string
	err := r.pool.QueryRow(ctx, `
		SELECT invoice_no FROM public.payments
		WHERE booking_id = $1
		ORDER BY created_at
		LIMIT 1
	`, bookingID).Scan(&invoiceNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("load invoice number failed: %w", err)
	}
	return invoiceNo, nil
}
