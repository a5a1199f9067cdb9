package response

import (
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/pkg/utils"
)

type PaymentResponse struct {
	ID            string               `json:"id"`
	BookingID     string               `json:"booking_id"`
	TransactionID string               `json:"transaction_id"`
	Method        entity.PaymentMethod `json:"method"`
	Amount        float64              `json:"amount"`
	Status        entity.PaymentStatus `json:"status"`
	PhoneNumber   string               `json:"phone_number,omitempty"`
	CardLast4     string               `json:"card_last4,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ProviderResponse is the provider's answer to an initiated payment.
type ProviderResponse struct {
	Status               string `json:"status"`
	Message              string `json:"message"`
	ConfirmationRequired bool   `json:"confirmation_required"`
}

type InitiatePaymentResponse struct {
	Payment  PaymentResponse  `json:"payment"`
	Provider ProviderResponse `json:"provider"`
}

// PaymentToResponse masks the phone number down to its last four digits.
func PaymentToResponse(p *entity.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		TransactionID: p.TransactionID,
		Method:        p.Method,
		Amount:        p.Amount,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.PhoneNumber != nil {
		resp.PhoneNumber = utils.MaskTail(*p.PhoneNumber, 4)
	}
	if p.CardLast4 != nil {
		resp.CardLast4 = *p.CardLast4
	}
	return resp
}

func PaymentToSummary(p *entity.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	resp := PaymentToResponse(p)
	return &resp
}
