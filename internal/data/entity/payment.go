package entity

import (
	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodOrangeMoney PaymentMethod = "orange_money"
	PaymentMethodMomoPay     PaymentMethod = "momo_pay"
	PaymentMethodCreditCard  PaymentMethod = "credit_card"
)

// IsMobileMoney reports whether the method is charged against a phone number.
func (m PaymentMethod) IsMobileMoney() bool {
	return m == PaymentMethodOrangeMoney || m == PaymentMethodMomoPay
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	Base
	BookingID     uuid.UUID     `db:"booking_id"`
	Method        PaymentMethod `db:"method"`
	Amount        float64       `db:"amount"`
	Status        PaymentStatus `db:"status"`
	TransactionID string        `db:"transaction_id"`
	PhoneNumber   *string       `db:"phone_number"`
	CardLast4     *string       `db:"card_last4"`
}
