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

func wireProperty(
	r chi.Router,
	propertyHandler *adaptor.PropertyHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	auth := middleware.Auth(repo.User, config.JWT.Secret, log)

	r.Route("/properties", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", propertyHandler.ListProperties)
		r.Get("/{id}/availability", propertyHandler.CheckAvailability)

		// Unapproved properties are visible to their owner and admins
		r.With(middleware.OptionalAuth(repo.User, config.JWT.Secret, log)).Get("/{id}", propertyHandler.GetProperty)

		// ==================== OWNER ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.With(middleware.RequireAction(policy.PropertyListOwned, log)).Get("/owner", propertyHandler.GetOwnerProperties)
			r.With(middleware.RequireAction(policy.PropertyCreate, log)).Post("/", propertyHandler.CreateProperty)
			r.With(middleware.RequireAction(policy.PropertyUpdate, log)).Put("/{id}", propertyHandler.UpdateProperty)
			r.With(middleware.RequireAction(policy.PropertyDelete, log)).Delete("/{id}", propertyHandler.DeleteProperty)
		})
	})
}
