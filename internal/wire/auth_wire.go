package wire

import (
	"rental-marketplace/internal/adaptor"
	"rental-marketplace/internal/data/repository"
	"rental-marketplace/pkg/middleware"
	"rental-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/auth", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// ==================== PROTECTED ROUTES ====================
		r.With(middleware.Auth(repo.User, config.JWT.Secret, log)).Get("/me", authHandler.Me)
	})
}
