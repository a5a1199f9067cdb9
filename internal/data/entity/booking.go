package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransitionTo reports whether the booking lifecycle allows moving to next.
// Completed and cancelled are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// HoldsDates reports whether a booking in this status blocks its date range.
func (s BookingStatus) HoldsDates() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	Base
	PropertyID  uuid.UUID     `db:"property_id"`
	CustomerID  uuid.UUID     `db:"customer_id"`
	StartDate   time.Time     `db:"start_date"`
	EndDate     time.Time     `db:"end_date"` // exclusive
	Guests      int           `db:"guests"`
	TotalAmount float64       `db:"total_amount"`
	Status      BookingStatus `db:"status"`
	Notes       *string       `db:"notes"`
}
