package invoice

import "time"

// Line is one charge on the invoice: the room stay or a consumed service.
type Line struct {
	Kind           string // "room" or "service"
	Description    string
	Quantity       int
	UnitPriceCents int64
	AmountCents    int64
}

// PaymentEntry summarizes one ledger entry on the invoice.
type PaymentEntry struct {
	ID          string
	Method      string
	AmountCents int64
	Status      string
	PaidAt      *time.Time
}

// Invoice is a point-in-time statement for a booking. InvoiceNo is empty
// until the first payment mints one.
type Invoice struct {
	InvoiceNo     string
	BookingID     string
	RoomName      string
	UserName      string
	CheckIn       time.Time
	CheckOut      time.Time
	Status        string
	Lines         []Line
	RoomCents     int64
	ServicesCents int64
	TotalCents    int64
	PaidCents     int64
	BalanceCents  int64
	FullyPaid     bool
	Payments      []PaymentEntry
	IssuedAt      time.Time
}
