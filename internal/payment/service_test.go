package payment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinewood/hotel-booking-backend/internal/billing"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
)

// fakeRepository mirrors the balance and invoice rules the real repository
// enforces inside its transaction.
type fakeRepository struct {
	payments map[string]*Payment
	nextID   int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{payments: make(map[string]*Payment)}
}

func (r *fakeRepository) byBooking(bookingID string) []*Payment {
	var out []*Payment
	for _, p := range r.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakeRepository) Create(_ context.Context, p *Payment, totalCents int64) error {
	var committed int64
	for _, other := range r.byBooking(p.BookingID) {
		if other.Status == StatusPaid || other.Status == StatusPending {
			committed += other.AmountCents
		}
	}
	if committed+p.AmountCents > totalCents {
		return ErrExceedsBalance
	}

	if existing := r.byBooking(p.BookingID); len(existing) > 0 {
		p.InvoiceNo = existing[0].InvoiceNo
	}

	r.nextID++
	p.ID = fmt.Sprintf("payment-%d", r.nextID)
	p.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	clone := *p
	r.payments[p.ID] = &clone
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeRepository) GetByExternalTxnID(_ context.Context, txnID string) (*Payment, error) {
	for _, p := range r.payments {
		if p.ExternalTxnID != nil && *p.ExternalTxnID == txnID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepository) Finalize(_ context.Context, id string, to Status, paidAt *time.Time) error {
	p, ok := r.payments[id]
	if !ok {
		return ErrNotFound
	}
	if p.Status != StatusPending {
		return ErrAlreadyFinalized
	}
	p.Status = to
	p.PaidAt = paidAt
	return nil
}

func (r *fakeRepository) ListByBooking(_ context.Context, bookingID string) ([]*Payment, error) {
	return r.byBooking(bookingID), nil
}

func (r *fakeRepository) TotalPaid(_ context.Context, bookingID string) (int64, error) {
	var total int64
	for _, p := range r.byBooking(bookingID) {
		if p.Status == StatusPaid {
			total += p.AmountCents
		}
	}
	return total, nil
}

func (r *fakeRepository) InvoiceNoForBooking(_ context.Context, bookingID string) (string, error) {
	if existing := r.byBooking(bookingID); len(existing) > 0 {
		return existing[0].InvoiceNo, nil
	}
	return "", nil
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

type fakeBillingService struct {
	billing.Service
	totals map[string]int64
}

func (s *fakeBillingService) QuoteFor(_ context.Context, b *booking.Booking) (*billing.Quote, error) {
	total := s.totals[b.ID]
	return &billing.Quote{TotalCents: total}, nil
}

type fakeGateway struct {
	sessions []SessionRequest
	fail     bool
}

func (g *fakeGateway) CreateSession(_ context.Context, req SessionRequest) (*Session, error) {
	if g.fail {
		return nil, errors.New("provider unreachable")
	}
	g.sessions = append(g.sessions, req)
	return &Session{RedirectURL: "https://pay.example.com/s/" + req.TxnID}, nil
}

type fixture struct {
	repo     *fakeRepository
	bookings *fakeBookingService
	gateway  *fakeGateway
	svc      Service
}

func newFixture() *fixture {
	repo := newFakeRepository()
	bookings := &fakeBookingService{bookings: map[string]*booking.Booking{
		"booking-1": {
			ID:     "booking-1",
			UserID: "user-1",
			Status: booking.StatusCheckedIn,
		},
	}}
	bills := &fakeBillingService{totals: map[string]int64{"booking-1": 35000}}
	gateway := &fakeGateway{}
	callbacks := CallbackURLs{
		Success: "http://localhost:8080/v1/payments/gateway/success",
		Fail:    "http://localhost:8080/v1/payments/gateway/fail",
		Cancel:  "http://localhost:8080/v1/payments/gateway/cancel",
	}
	return &fixture{
		repo:     repo,
		bookings: bookings,
		gateway:  gateway,
		svc:      NewService(repo, bookings, bills, gateway, callbacks, nil),
	}
}

var invoiceNoPattern = regexp.MustCompile(`^INV-\d{8}-[0-9a-f]{8}$`)

func TestRecordDeskPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	result, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 20000}, "staff-1", true)
	require.NoError(t, err)

	p := result.Payment
	assert.Equal(t, StatusPaid, p.Status)
	assert.NotNil(t, p.PaidAt)
	assert.Empty(t, result.RedirectURL)
	assert.Regexp(t, invoiceNoPattern, p.InvoiceNo)

	total, err := f.svc.TotalPaid(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, int64(20000), total)
}

func TestInvoiceNumberIsReused(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 20000}, "staff-1", true)
	require.NoError(t, err)

	second, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCard, AmountCents: 15000}, "staff-1", true)
	require.NoError(t, err)

	assert.Equal(t, first.Payment.InvoiceNo, second.Payment.InvoiceNo)
}

func TestRecordGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("amount above balance is rejected", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 35001}, "staff-1", true)
		assert.ErrorIs(t, err, ErrExceedsBalance)
	})

	t.Run("partial payments may not overshoot together", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 30000}, "staff-1", true)
		require.NoError(t, err)

		_, err = f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 10000}, "staff-1", true)
		assert.ErrorIs(t, err, ErrExceedsBalance)

		_, err = f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 5000}, "staff-1", true)
		assert.NoError(t, err)
	})

	t.Run("desk methods need staff", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 1000}, "user-1", false)
		assert.ErrorIs(t, err, booking.ErrPermissionDenied)
	})

	t.Run("cancelled booking takes no payments", func(t *testing.T) {
		f := newFixture()
		f.bookings.bookings["booking-1"].Status = booking.StatusCancelled
		_, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 1000}, "staff-1", true)
		assert.ErrorIs(t, err, ErrBookingCancelled)
	})

	t.Run("invalid inputs", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: "iou", AmountCents: 1000}, "staff-1", true)
		assert.ErrorIs(t, err, ErrInvalidMethod)

		_, err = f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 0}, "staff-1", true)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestOnlinePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a gateway session", func(t *testing.T) {
		f := newFixture()

		result, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodOnline, AmountCents: 35000}, "user-1", false)
		require.NoError(t, err)

		p := result.Payment
		assert.Equal(t, StatusPending, p.Status)
		require.NotNil(t, p.ExternalTxnID)
		assert.Contains(t, result.RedirectURL, *p.ExternalTxnID)

		require.Len(t, f.gateway.sessions, 1)
		assert.Equal(t, int64(35000), f.gateway.sessions[0].AmountCents)

		// Pending sessions don't count as paid yet.
		total, err := f.svc.TotalPaid(ctx, "booking-1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("gateway method behaves like online", func(t *testing.T) {
		f := newFixture()

		result, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodGateway, AmountCents: 10000}, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, result.Payment.Status)
		assert.NotEmpty(t, result.RedirectURL)
	})

	t.Run("demo gateway settles in the original request", func(t *testing.T) {
		f := newFixture()
		f.svc = NewService(f.repo, f.bookings, &fakeBillingService{totals: map[string]int64{"booking-1": 35000}}, NewDemoGateway(), CallbackURLs{}, nil)

		result, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodOnline, AmountCents: 35000}, "user-1", false)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, result.Payment.Status)
		assert.NotNil(t, result.Payment.PaidAt)
		assert.Empty(t, result.RedirectURL)

		total, err := f.svc.TotalPaid(ctx, "booking-1")
		require.NoError(t, err)
		assert.Equal(t, int64(35000), total)
	})

	t.Run("session failure leaves a failed ledger entry", func(t *testing.T) {
		f := newFixture()
		f.gateway.fail = true

		_, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodOnline, AmountCents: 35000}, "user-1", false)
		assert.ErrorIs(t, err, ErrGateway)

		payments, err := f.svc.ListByBooking(ctx, "booking-1", "user-1", false)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, StatusFailed, payments[0].Status)

		// The failed attempt releases its reservation on the balance.
		f.gateway.fail = false
		_, err = f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodOnline, AmountCents: 35000}, "user-1", false)
		assert.NoError(t, err)
	})
}

func TestGatewayCallback(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T, f *fixture) string {
		result, err := f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodOnline, AmountCents: 35000}, "user-1", false)
		require.NoError(t, err)
		return *result.Payment.ExternalTxnID
	}

	t.Run("success settles the payment", func(t *testing.T) {
		f := newFixture()
		txnID := open(t, f)

		p, err := f.svc.ApplyGatewayCallback(ctx, txnID, OutcomeSuccess)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, p.Status)
		assert.NotNil(t, p.PaidAt)

		total, err := f.svc.TotalPaid(ctx, "booking-1")
		require.NoError(t, err)
		assert.Equal(t, int64(35000), total)
	})

	t.Run("replay with the same outcome is a no-op", func(t *testing.T) {
		f := newFixture()
		txnID := open(t, f)

		_, err := f.svc.ApplyGatewayCallback(ctx, txnID, OutcomeSuccess)
		require.NoError(t, err)

		p, err := f.svc.ApplyGatewayCallback(ctx, txnID, OutcomeSuccess)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, p.Status)

		total, err := f.svc.TotalPaid(ctx, "booking-1")
		require.NoError(t, err)
		assert.Equal(t, int64(35000), total)
	})

	t.Run("conflicting outcome after settlement is rejected", func(t *testing.T) {
		f := newFixture()
		txnID := open(t, f)

		_, err := f.svc.ApplyGatewayCallback(ctx, txnID, OutcomeSuccess)
		require.NoError(t, err)

		_, err = f.svc.ApplyGatewayCallback(ctx, txnID, OutcomeFail)
		assert.ErrorIs(t, err, ErrAlreadyFinalized)
	})

	t.Run("cancel frees the reserved balance", func(t *testing.T) {
		f := newFixture()
		txnID := open(t, f)

		p, err := f.svc.ApplyGatewayCallback(ctx, txnID, OutcomeCancel)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, p.Status)

		_, err = f.svc.Record(ctx, "booking-1", RecordRequest{Method: MethodCash, AmountCents: 35000}, "staff-1", true)
		assert.NoError(t, err)
	})

	t.Run("unknown transaction id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ApplyGatewayCallback(ctx, "no-such-txn", OutcomeSuccess)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
