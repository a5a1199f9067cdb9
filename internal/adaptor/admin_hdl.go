package adaptor

import (
	"net/http"

	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// GetStats handles GET /api/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), p)
	if err != nil {
		respondError(w, h.log, err, "get stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.UserListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:  utils.ParseInt(query.Get("page"), 1),
			Limit: utils.ParseInt(query.Get("limit"), 10),
		},
		Role:   query.Get("role"),
		Search: query.Get("search"),
	}

	users, err := h.service.ListUsers(r.Context(), p, req)
	if err != nil {
		respondError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// ToggleUserStatus handles PATCH /api/admin/users/{id}/toggle-status
func (h *AdminHandler) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.service.ToggleUserStatus(r.Context(), p, id)
	if err != nil {
		respondError(w, h.log, err, "toggle user status")
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}
	utils.ResponseSuccess(w, message, user)
}

// ListPendingProperties handles GET /api/admin/properties/pending
func (h *AdminHandler) ListPendingProperties(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:  utils.ParseInt(query.Get("page"), 1),
		Limit: utils.ParseInt(query.Get("limit"), 10),
	}

	properties, err := h.service.ListPendingProperties(r.Context(), p, req)
	if err != nil {
		respondError(w, h.log, err, "list pending properties")
		return
	}

	utils.ResponseSuccess(w, "success", properties)
}

// ApproveProperty handles PATCH /api/admin/properties/{id}/approve
func (h *AdminHandler) ApproveProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "property")
	if !ok {
		return
	}

	property, err := h.service.ApproveProperty(r.Context(), p, id)
	if err != nil {
		respondError(w, h.log, err, "approve property")
		return
	}

	utils.ResponseSuccess(w, "Property approved successfully", property)
}

// RejectProperty handles DELETE /api/admin/properties/{id}/reject
func (h *AdminHandler) RejectProperty(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id", "property")
	if !ok {
		return
	}

	if err := h.service.RejectProperty(r.Context(), p, id); err != nil {
		respondError(w, h.log, err, "reject property")
		return
	}

	utils.ResponseSuccess(w, "Property rejected and removed", nil)
}
