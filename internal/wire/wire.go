package wire

import (
	"net/http"

	"rental-marketplace/internal/adaptor"
	"rental-marketplace/internal/data/repository"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/middleware"
	"rental-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services and handlers and mounts every route.
func Wiring(deps usecase.Deps) *App {
	service := usecase.NewService(deps)
	handler := adaptor.NewHandler(service, deps.Config, deps.Log)

	router := setupRouter(handler, deps.Repo, deps.Config, deps.Log)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigin))

	r.Route("/api", func(r chi.Router) {
		wireAuth(r, handler.Auth, repo, config, logger)
		wireProperty(r, handler.Property, repo, config, logger)
		wireBooking(r, handler.Booking, repo, config, logger)
		wirePayment(r, handler.Payment, repo, config, logger)
		wireReview(r, handler.Review, repo, config, logger)
		wireAdmin(r, handler.Admin, repo, config, logger)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "Server is running", nil)
	})

	return r
}
