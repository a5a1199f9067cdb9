package adaptor

import (
	"net/http"

	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/payments/initiate (customer)
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.InitiatePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.InitiatePayment(r.Context(), p, &req)
	if err != nil {
		respondError(w, h.log, err, "initiate payment")
		return
	}

	utils.ResponseSuccess(w, "Payment initiated", resp)
}

// ConfirmPayment handles POST /api/payments/confirm (customer)
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.ConfirmPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	payment, err := h.service.ConfirmPayment(r.Context(), p, &req)
	if err != nil {
		respondError(w, h.log, err, "confirm payment")
		return
	}

	utils.ResponseSuccess(w, "Payment confirmed successfully", payment)
}
