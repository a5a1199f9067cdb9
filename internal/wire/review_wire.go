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

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/reviews", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/property/{propertyId}", reviewHandler.GetPropertyReviews)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(repo.User, config.JWT.Secret, log))

			r.With(middleware.RequireAction(policy.ReviewCreate, log)).Post("/", reviewHandler.CreateReview)
			r.With(middleware.RequireAction(policy.ReviewUpdate, log)).Put("/{id}", reviewHandler.UpdateReview)
			r.With(middleware.RequireAction(policy.ReviewDelete, log)).Delete("/{id}", reviewHandler.DeleteReview)
		})
	})
}
