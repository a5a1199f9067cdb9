package wire

import (
	"rental-marketplace/internal/adaptor"
	"rental-marketplace/internal/data/repository"
	"rental-marketplace/internal/policy"
	"rental-marketplace/pkg/middleware"
	"rental-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(repo.User, config.JWT.Secret, log))
		r.Use(middleware.RequireAction(policy.AdminAccess, log))

		r.Get("/stats", adminHandler.GetStats)
		r.Get("/users", adminHandler.ListUsers)
		r.Patch("/users/{id}/toggle-status", adminHandler.ToggleUserStatus)
		r.Get("/properties/pending", adminHandler.ListPendingProperties)
		r.Patch("/properties/{id}/approve", adminHandler.ApproveProperty)
		r.Delete("/properties/{id}/reject", adminHandler.RejectProperty)
	})
}
