package adaptor

import (
	"net/http"

	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (customer)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), p, &req)
	if err != nil {
		respondError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created successfully", booking)
}

// GetCustomerBookings handles GET /api/bookings/customer (customer)
func (h *BookingHandler) GetCustomerBookings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.GetCustomerBookings(r.Context(), p)
	if err != nil {
		respondError(w, h.log, err, "get customer bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetOwnerBookings handles GET /api/bookings/owner (owner)
func (h *BookingHandler) GetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.GetOwnerBookings(r.Context(), p)
	if err != nil {
		respondError(w, h.log, err, "get owner bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), p, id)
	if err != nil {
		respondError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// UpdateBookingStatus handles PATCH /api/bookings/{id}/status
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "booking")
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), p, id, &req)
	if err != nil {
		respondError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated successfully", booking)
}
