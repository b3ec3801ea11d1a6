package http

import (
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/payment"
)

type RecordPaymentBody struct {
	Method      string `json:"method" binding:"required,oneof=cash card bank_transfer mobile_wallet online gateway"`
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
}

// GatewayCallbackRequest is what the provider posts back after a checkout
// session resolves.
type GatewayCallbackRequest struct {
	TxnID string `form:"txn_id" binding:"required"`
}

type PaymentResponse struct {
	ID            string     `json:"id"`
	BookingID     string     `json:"booking_id"`
	Method        string     `json:"method"`
	AmountCents   int64      `json:"amount_cents"`
	Status        string     `json:"status"`
	InvoiceNo     string     `json:"invoice_no"`
	ExternalTxnID *string    `json:"external_txn_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	// RedirectURL is returned only when an online payment opens a
	// gateway session.
	RedirectURL string `json:"redirect_url,omitempty"`
}

func NewPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Method:        string(p.Method),
		AmountCents:   p.AmountCents,
		Status:        string(p.Status),
		InvoiceNo:     p.InvoiceNo,
		ExternalTxnID: p.ExternalTxnID,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}
