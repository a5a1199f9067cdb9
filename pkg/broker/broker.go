// Package broker publishes marketplace domain events.
package broker

import (
	"context"
	"time"
)

// Routing keys on the events exchange.
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingCompleted     = "booking.completed"
	PaymentCompleted     = "payment.completed"
	PaymentFailed        = "payment.failed"
	PropertyApproved     = "property.approved"
	PropertyRejected     = "property.rejected"
)

// Event is the JSON body of every published message.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close() error
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
