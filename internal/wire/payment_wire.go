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

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(middleware.Auth(repo.User, config.JWT.Secret, log))

		r.With(middleware.RequireAction(policy.PaymentInitiate, log)).Post("/initiate", paymentHandler.InitiatePayment)
		r.With(middleware.RequireAction(policy.PaymentConfirm, log)).Post("/confirm", paymentHandler.ConfirmPayment)
	})
}
