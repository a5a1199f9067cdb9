package request

type CardDetails struct {
	Last4 string `json:"last4" validate:"required,len=4,numeric"`
}

type InitiatePaymentRequest struct {
	BookingID   string       `json:"booking_id" validate:"required,uuid"`
	Method      string       `json:"method" validate:"required,oneof=orange_money momo_pay credit_card"`
	PhoneNumber string       `json:"phone_number,omitempty" validate:"omitempty,e164"`
	CardDetails *CardDetails `json:"card_details,omitempty"`
}

// ConfirmPaymentRequest only requires a code; whether it is accepted is the
// provider's decision, so a rejected code still marks the payment failed.
type ConfirmPaymentRequest struct {
	TransactionID    string `json:"transaction_id" validate:"required,max=64"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=64"`
}
