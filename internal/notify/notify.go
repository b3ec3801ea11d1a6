// Package notify dispatches fire-and-forget domain events to interested
// collaborators (mail/SMS workers, dashboards). Delivery failures are logged
// and never abort the operation that triggered them.
package notify

import "context"

// Publisher publishes a domain event to a named topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Topics used by the booking and payment modules.
const (
	TopicBookingCreated   = "booking.created"
	TopicBookingStatus    = "booking.status_changed"
	TopicPaymentReceived  = "payment.received"
	TopicPaymentFinalized = "payment.finalized"
)

type noopPublisher struct{}

// NewNoop returns a Publisher that drops every event. Used when no broker
// is configured.
func NewNoop() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, topic string, payload any) error {
	return nil
}
