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

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(repo.User, config.JWT.Secret, log))

		r.With(middleware.RequireAction(policy.BookingCreate, log)).Post("/", bookingHandler.CreateBooking)
		r.With(middleware.RequireAction(policy.BookingListCustomer, log)).Get("/customer", bookingHandler.GetCustomerBookings)
		r.With(middleware.RequireAction(policy.BookingListOwner, log)).Get("/owner", bookingHandler.GetOwnerBookings)

		// Ownership of these is checked per booking
		r.With(middleware.RequireAction(policy.BookingView, log)).Get("/{id}", bookingHandler.GetBooking)
		r.With(middleware.RequireAction(policy.BookingUpdateStatus, log)).Patch("/{id}/status", bookingHandler.UpdateBookingStatus)
	})
}
