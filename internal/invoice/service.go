package invoice

import (
	"context"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/billing"
	"github.com/pinewood/hotel-booking-backend/internal/booking"
	"github.com/pinewood/hotel-booking-backend/internal/payment"
)

type Service interface {
	// ForBooking assembles the current statement for a booking: charges,
	// totals, and the payment ledger.
	ForBooking(ctx context.Context, bookingID string, actorID string, privileged bool) (*Invoice, error)
}

type service struct {
	bookingService booking.Service
	billingService billing.Service
	paymentService payment.Service

	now func() time.Time
}

func NewService(bookingService booking.Service, billingService billing.Service, paymentService payment.Service) Service {
	return &service{
		bookingService: bookingService,
		billingService: billingService,
		paymentService: paymentService,
		now:            time.Now,
	}
}

func (s *service) ForBooking(ctx context.Context, bookingID string, actorID string, privileged bool) (*Invoice, error) {
	b, err := s.bookingService.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !privileged && b.UserID != actorID {
		return nil, booking.ErrPermissionDenied
	}

	quote, err := s.billingService.QuoteFor(ctx, b)
	if err != nil {
		return nil, err
	}

	usage, err := s.billingService.ListUsage(ctx, bookingID, actorID, privileged)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentService.ListByBooking(ctx, bookingID, actorID, privileged)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(usage)+1)
	lines = append(lines, Line{
		Kind:           "room",
		Description:    b.RoomName,
		Quantity:       b.Nights,
		UnitPriceCents: quote.RateCents,
		AmountCents:    quote.RoomCents,
	})
	for _, u := range usage {
		lines = append(lines, Line{
			Kind:           "service",
			Description:    u.AmenityName,
			Quantity:       u.Quantity,
			UnitPriceCents: u.UnitPriceCents,
			AmountCents:    u.AmountCents,
		})
	}

	var invoiceNo string
	var paidCents int64
	entries := make([]PaymentEntry, len(payments))
	for i, p := range payments {
		if invoiceNo == "" {
			invoiceNo = p.InvoiceNo
		}
		if p.Status == payment.StatusPaid {
			paidCents += p.AmountCents
		}
		entries[i] = PaymentEntry{
			ID:          p.ID,
			Method:      string(p.Method),
			AmountCents: p.AmountCents,
			Status:      string(p.Status),
			PaidAt:      p.PaidAt,
		}
	}

	return &Invoice{
		InvoiceNo:     invoiceNo,
		BookingID:     b.ID,
		RoomName:      b.RoomName,
		UserName:      b.UserName,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		Status:        string(b.Status),
		Lines:         lines,
		RoomCents:     quote.RoomCents,
		ServicesCents: quote.ServicesCents,
		TotalCents:    quote.TotalCents,
		PaidCents:     paidCents,
		BalanceCents:  quote.TotalCents - paidCents,
		FullyPaid:     paidCents >= quote.TotalCents,
		Payments:      entries,
		IssuedAt:      s.now().UTC(),
	}, nil
}
