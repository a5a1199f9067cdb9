package response

import (
	"time"

	"rental-marketplace/internal/data/entity"
)

const DateLayout = "2006-01-02"

type BookingResponse struct {
	ID          string               `json:"id"`
	PropertyID  string               `json:"property_id"`
	CustomerID  string               `json:"customer_id"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Nights      int                  `json:"nights"`
	Guests      int                  `json:"guests"`
	TotalAmount float64              `json:"total_amount"`
	Status      entity.BookingStatus `json:"status"`
	Notes       *string              `json:"notes,omitempty"`
	Property    *PropertySummary     `json:"property,omitempty"`
	Customer    *UserSummary         `json:"customer,omitempty"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type AvailabilityResponse struct {
	PropertyID          string  `json:"property_id"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	Available           bool    `json:"available"`
	Nights              int     `json:"nights"`
	PricePerNight       float64 `json:"price_per_night"`
	TotalAmount         float64 `json:"total_amount"`
	ConflictingBookings int     `json:"conflicting_bookings"`
}

// BookingToResponse converts the booking alone; callers attach related resources.
func BookingToResponse(b *entity.Booking, nights int) BookingResponse {
	return BookingResponse{
		ID:          b.ID.String(),
		PropertyID:  b.PropertyID.String(),
		CustomerID:  b.CustomerID.String(),
		StartDate:   b.StartDate.Format(DateLayout),
		EndDate:     b.EndDate.Format(DateLayout),
		Nights:      nights,
		Guests:      b.Guests,
		TotalAmount: b.TotalAmount,
		Status:      b.Status,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
