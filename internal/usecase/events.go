package usecase

import (
	"time"

	"github.com/google/uuid"
)

// Payloads published on the events exchange.

type BookingEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
}

type BookingStatusEvent struct {
	BookingID uuid.UUID `json:"booking_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy uuid.UUID `json:"changed_by"`
}

type BookingCompletedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type PaymentEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	TransactionID string    `json:"transaction_id"`
	Method        string    `json:"method"`
	Amount        float64   `json:"amount"`
}

type PropertyModeratedEvent struct {
	PropertyID  uuid.UUID `json:"property_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	ModeratedBy uuid.UUID `json:"moderated_by"`
}
