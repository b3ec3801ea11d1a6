package payment

import (
	"net/http"
	"time"

	"github.com/pinewood/hotel-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "payment not found")
	ErrInvalidAmount    = apperror.New(http.StatusBadRequest, "amount must be positive")
	ErrInvalidMethod    = apperror.New(http.StatusBadRequest, "unknown payment method")
	ErrInvalidOutcome   = apperror.New(http.StatusBadRequest, "unknown gateway outcome")
	ErrExceedsBalance   = apperror.New(http.StatusConflict, "amount exceeds outstanding balance")
	ErrBookingCancelled = apperror.New(http.StatusConflict, "cancelled bookings cannot take payments")
	ErrAlreadyFinalized = apperror.New(http.StatusConflict, "payment already finalized with a different outcome")
	ErrGateway          = apperror.New(http.StatusBadGateway, "payment gateway request failed")
)

// Method is how a payment is taken. Desk methods settle immediately;
// MethodOnline and MethodGateway open a provider session and settle
// asynchronously through a callback.
type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodMobileWallet Method = "mobile_wallet"
	MethodOnline       Method = "online"
	MethodGateway      Method = "gateway"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodMobileWallet, MethodOnline, MethodGateway:
		return true
	}
	return false
}

// Synchronous reports whether the method settles at record time.
func (m Method) Synchronous() bool {
	return m != MethodOnline && m != MethodGateway
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// GatewayOutcome is the result reported by the gateway callback.
type GatewayOutcome string

const (
	OutcomeSuccess GatewayOutcome = "success"
	OutcomeFail    GatewayOutcome = "fail"
	OutcomeCancel  GatewayOutcome = "cancel"
)

// StatusFor maps a gateway outcome to the payment status it finalizes to.
func StatusFor(outcome GatewayOutcome) (Status, bool) {
	switch outcome {
	case OutcomeSuccess:
		return StatusPaid, true
	case OutcomeFail:
		return StatusFailed, true
	case OutcomeCancel:
		return StatusCancelled, true
	}
	return "", false
}

// Payment is one ledger entry against a booking's bill. InvoiceNo is minted
// on the booking's first payment and shared by every later entry.
type Payment struct {
	ID            string
	BookingID     string
	Method        Method
	AmountCents   int64
	Status        Status
	InvoiceNo     string
	ExternalTxnID *string // set for gateway payments only
	RecordedBy    string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
