package payment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pinewood/hotel-booking-backend/internal/billing"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
	"github.com/pinewood/hotel-booking-backend/internal/notify"
)

type RecordRequest struct {
	Method      Method
	AmountCents int64
}

// RecordResult carries the created payment plus, for gateway payments, the
// checkout URL the payer should be redirected to.
type RecordResult struct {
	Payment     *Payment
	RedirectURL string
}

type CallbackURLs struct {
	Success string
	Fail    string
	Cancel  string
}

type Service interface {
	// Record adds a payment against the booking's outstanding balance.
	// Desk methods settle immediately; MethodOnline opens a gateway
	// session and returns its redirect URL.
	Record(ctx context.Context, bookingID string, req RecordRequest, actorID string, privileged bool) (*RecordResult, error)

	// ApplyGatewayCallback finalizes a pending gateway payment. Replays
	// of the same outcome are no-ops; a different outcome after
	// finalization is rejected.
	ApplyGatewayCallback(ctx context.Context, externalTxnID string, outcome GatewayOutcome) (*Payment, error)

	ListByBooking(ctx context.Context, bookingID string, actorID string, privileged bool) ([]*Payment, error)
	TotalPaid(ctx context.Context, bookingID string) (int64, error)
	InvoiceNoForBooking(ctx context.Context, bookingID string) (string, error)
}

type service struct {
	repo           Repository
	bookingService booking.Service
	billingService billing.Service
	gateway        Gateway
	callbacks      CallbackURLs
	notifier       notify.Publisher

	now func() time.Time
}

func NewService(repo Repository, bookingService booking.Service, billingService billing.Service, gateway Gateway, callbacks CallbackURLs, notifier notify.Publisher) Service {
	return &service{
		repo:           repo,
		bookingService: bookingService,
		billingService: billingService,
		gateway:        gateway,
		callbacks:      callbacks,
		notifier:       notifier,
		now:            time.Now,
	}
}

// newInvoiceNo mints an invoice number like INV-20260829-1a2b3c4d. It is
// only used when the booking has no prior payments; the repository keeps
// the first minted number for every later payment.
func (s *service) newInvoiceNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("INV-%s-%s", s.now().UTC().Format("20060102"), suffix)
}

func (s *service) Record(ctx context.Context, bookingID string, req RecordRequest, actorID string, privileged bool) (*RecordResult, error) {
	if !req.Method.Valid() {
		return nil, ErrInvalidMethod
	}
	if req.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	// Desk methods are recorded by staff; guests pay online themselves.
	if req.Method.Synchronous() && !privileged {
		return nil, booking.ErrPermissionDenied
	}

	b, err := s.bookingService.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !privileged && b.UserID != actorID {
		return nil, booking.ErrPermissionDenied
	}
	if b.Status == booking.StatusCancelled {
		return nil, ErrBookingCancelled
	}

	quote, err := s.billingService.QuoteFor(ctx, b)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		BookingID:   b.ID,
		Method:      req.Method,
		AmountCents: req.AmountCents,
		Status:      StatusPending,
		InvoiceNo:   s.newInvoiceNo(),
		RecordedBy:  actorID,
	}
	if req.Method.Synchronous() {
		p.Status = StatusPaid
		paidAt := s.now().UTC()
		p.PaidAt = &paidAt
	} else {
		txnID := uuid.NewString()
		p.ExternalTxnID = &txnID
	}

	// The repository re-checks the balance under a per-booking lock, so
	// concurrent payments cannot jointly exceed the bill.
	if err := s.repo.Create(ctx, p, quote.TotalCents); err != nil {
		return nil, err
	}

	result := &RecordResult{Payment: p}

	if !req.Method.Synchronous() {
		session, err := s.gateway.CreateSession(ctx, SessionRequest{
			TxnID:       *p.ExternalTxnID,
			AmountCents: p.AmountCents,
			Description: fmt.Sprintf("Invoice %s", p.InvoiceNo),
			SuccessURL:  s.callbacks.Success,
			FailURL:     s.callbacks.Fail,
			CancelURL:   s.callbacks.Cancel,
		})
		if err != nil {
			log.Printf("payment: gateway session for %s failed: %v", p.ID, err)
			// Keep the ledger honest: the attempt happened and failed.
			if finErr := s.repo.Finalize(ctx, p.ID, StatusFailed, nil); finErr != nil {
				log.Printf("payment: failing payment %s failed: %v", p.ID, finErr)
			}
			return nil, ErrGateway
		}
		if session.Settled {
			// Demo mode: no provider round-trip, the payment settles now.
			paidAt := s.now().UTC()
			if err := s.repo.Finalize(ctx, p.ID, StatusPaid, &paidAt); err != nil {
				return nil, err
			}
			p.Status = StatusPaid
			p.PaidAt = &paidAt
		} else {
			result.RedirectURL = session.RedirectURL
		}
	}

	s.publish(ctx, notify.TopicPaymentReceived, p)
	return result, nil
}

func (s *service) ApplyGatewayCallback(ctx context.Context, externalTxnID string, outcome GatewayOutcome) (*Payment, error) {
	to, ok := StatusFor(outcome)
	if !ok {
		return nil, ErrInvalidOutcome
	}

	p, err := s.repo.GetByExternalTxnID(ctx, externalTxnID)
	if err != nil {
		return nil, err
	}

	// Replayed callback with the same result: acknowledge and move on.
	if p.Status == to {
		return p, nil
	}
	if p.Status != StatusPending {
		return nil, ErrAlreadyFinalized
	}

	var paidAt *time.Time
	if to == StatusPaid {
		t := s.now().UTC()
		paidAt = &t
	}

	if err := s.repo.Finalize(ctx, p.ID, to, paidAt); err != nil {
		return nil, err
	}
	p.Status = to
	p.PaidAt = paidAt

	s.publish(ctx, notify.TopicPaymentFinalized, p)
	return p, nil
}

func (s *service) ListByBooking(ctx context.Context, bookingID string, actorID string, privileged bool) ([]*Payment, error) {
	b, err := s.bookingService.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !privileged && b.UserID != actorID {
		return nil, booking.ErrPermissionDenied
	}
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *service) TotalPaid(ctx context.Context, bookingID string) (int64, error) {
	return s.repo.TotalPaid(ctx, bookingID)
}

func (s *service) InvoiceNoForBooking(ctx context.Context, bookingID string) (string, error) {
	return s.repo.InvoiceNoForBooking(ctx, bookingID)
}

func (s *service) publish(ctx context.Context, topic string, p *Payment) {
	if s.notifier == nil {
		return
	}
	event := map[string]any{
		"payment_id":   p.ID,
		"booking_id":   p.BookingID,
		"method":       string(p.Method),
		"amount_cents": p.AmountCents,
		"status":       string(p.Status),
		"invoice_no":   p.InvoiceNo,
	}
	if err := s.notifier.Publish(ctx, topic, event); err != nil {
		log.Printf("payment: notify %s failed: %v", topic, err)
	}
}
