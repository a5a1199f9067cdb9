package adaptor

import (
	"net/http"

	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type PropertyHandler struct {
	service  usecase.PropertyService
	bookings usecase.BookingService
	log      *zap.Logger
}

func NewPropertyHandler(service usecase.PropertyService, bookings usecase.BookingService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		service:  service,
		bookings: bookings,
		log:      log.With(zap.String("handler", "property")),
	}
}

// ListProperties handles GET /api/properties (public)
func (h *PropertyHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.PropertyListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:  utils.ParseInt(query.Get("page"), 1),
			Limit: utils.ParseInt(query.Get("limit"), 12),
		},
		Type:      query.Get("type"),
		Location:  query.Get("location"),
		MinPrice:  utils.ParseOptionalFloat(query.Get("min_price")),
		MaxPrice:  utils.ParseOptionalFloat(query.Get("max_price")),
		Bedrooms:  utils.ParseOptionalInt(query.Get("bedrooms")),
		Bathrooms: utils.ParseOptionalInt(query.Get("bathrooms")),
		Search:    query.Get("search"),
	}

	properties, err := h.service.ListPublic(r.Context(), req)
	if err != nil {
		respondError(w, h.log, err, "list properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// GetProperty handles GET /api/properties/{id} (optional auth)
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "property")
	if !ok {
		return
	}

	var viewer *utils.Principal
	if p, ok := utils.GetPrincipal(r.Context()); ok {
		viewer = &p
	}

	property, err := h.service.GetProperty(r.Context(), id, viewer)
	if err != nil {
		respondError(w, h.log, err, "get property")
		return
	}

	utils.ResponseSuccess(w, "success", property)
}

// GetOwnerProperties handles GET /api/properties/owner (owner)
func (h *PropertyHandler) GetOwnerProperties(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	properties, err := h.service.ListOwned(r.Context(), p)
	if err != nil {
		respondError(w, h.log, err, "list owner properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// CreateProperty handles POST /api/properties (owner)
func (h *PropertyHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.CreatePropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.CreateProperty(r.Context(), p, &req)
	if err != nil {
		respondError(w, h.log, err, "create property")
		return
	}

	utils.ResponseCreated(w, "Property created successfully. Awaiting admin approval.", property)
}

// UpdateProperty handles PUT /api/properties/{id} (owner, admin)
func (h *PropertyHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "property")
	if !ok {
		return
	}

	var req request.UpdatePropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.UpdateProperty(r.Context(), p, id, &req)
	if err != nil {
		respondError(w, h.log, err, "update property")
		return
	}

	utils.ResponseSuccess(w, "Property updated successfully", property)
}

// DeleteProperty handles DELETE /api/properties/{id} (owner, admin)
func (h *PropertyHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "property")
	if !ok {
		return
	}

	if err := h.service.DeleteProperty(r.Context(), p, id); err != nil {
		respondError(w, h.log, err, "delete property")
		return
	}

	utils.ResponseSuccess(w, "Property deleted successfully", nil)
}

// CheckAvailability handles GET /api/properties/{id}/availability (public)
func (h *PropertyHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "property")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.AvailabilityRequest{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Guests:    utils.ParseInt(query.Get("guests"), 1),
	}

	availability, err := h.bookings.CheckAvailability(r.Context(), id, req)
	if err != nil {
		respondError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}
