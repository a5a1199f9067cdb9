package adaptor

import (
	"net/http"

	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (customer)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), p, &req)
	if err != nil {
		respondError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created successfully", review)
}

// GetPropertyReviews handles GET /api/reviews/property/{propertyId} (public)
func (h *ReviewHandler) GetPropertyReviews(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := uuidParam(w, r, "propertyId", "property")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:  utils.ParseInt(query.Get("page"), 1),
		Limit: utils.ParseInt(query.Get("limit"), 10),
	}

	reviews, err := h.service.GetPropertyReviews(r.Context(), propertyID, req)
	if err != nil {
		respondError(w, h.log, err, "get property reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// UpdateReview handles PUT /api/reviews/{id} (author)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "review")
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), p, id, &req)
	if err != nil {
		respondError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (author, admin)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "review")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), p, id); err != nil {
		respondError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted successfully", nil)
}
