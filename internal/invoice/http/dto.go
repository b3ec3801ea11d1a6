package http

import (
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/invoice"
)

type LineResponse struct {
	Kind           string `json:"kind"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	AmountCents    int64  `json:"amount_cents"`
}

type PaymentEntryResponse struct {
	ID          string     `json:"id"`
	Method      string     `json:"method"`
	AmountCents int64      `json:"amount_cents"`
	Status      string     `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

type InvoiceResponse struct {
	InvoiceNo     string                 `json:"invoice_no"`
	BookingID     string                 `json:"booking_id"`
	RoomName      string                 `json:"room_name"`
	UserName      string                 `json:"user_name"`
	CheckIn       string                 `json:"check_in"`
	CheckOut      string                 `json:"check_out"`
	Status        string                 `json:"status"`
	Lines         []LineResponse         `json:"lines"`
	RoomCents     int64                  `json:"room_cents"`
	ServicesCents int64                  `json:"services_cents"`
	TotalCents    int64                  `json:"total_cents"`
	PaidCents     int64                  `json:"paid_cents"`
	BalanceCents  int64                  `json:"balance_cents"`
	FullyPaid     bool                   `json:"fully_paid"`
	Payments      []PaymentEntryResponse `json:"payments"`
	IssuedAt      time.Time              `json:"issued_at"`
}

func NewInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	lines := make([]LineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = LineResponse{
			Kind:           l.Kind,
			Description:    l.Description,
			Quantity:       l.Quantity,
			UnitPriceCents: l.UnitPriceCents,
			AmountCents:    l.AmountCents,
		}
	}

	payments := make([]PaymentEntryResponse, len(inv.Payments))
	for i, p := range inv.Payments {
		payments[i] = PaymentEntryResponse{
			ID:          p.ID,
			Method:      p.Method,
			AmountCents: p.AmountCents,
			Status:      p.Status,
			PaidAt:      p.PaidAt,
		}
	}

	return InvoiceResponse{
		InvoiceNo:     inv.InvoiceNo,
		BookingID:     inv.BookingID,
		RoomName:      inv.RoomName,
		UserName:      inv.UserName,
		CheckIn:       inv.CheckIn.Format("2006-01-02"),
		CheckOut:      inv.CheckOut.Format("2006-01-02"),
		Status:        inv.Status,
		Lines:         lines,
		RoomCents:     inv.RoomCents,
		ServicesCents: inv.ServicesCents,
		TotalCents:    inv.TotalCents,
		PaidCents:     inv.PaidCents,
		BalanceCents:  inv.BalanceCents,
		FullyPaid:     inv.FullyPaid,
		Payments:      payments,
		IssuedAt:      inv.IssuedAt,
	}
}
