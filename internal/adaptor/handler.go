package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Property *PropertyHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
	Review   *ReviewHandler
	Admin    *AdminHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, config.JWT.ExpiryHours, !config.App.Debug, log),
		Property: NewPropertyHandler(service.Property, service.Booking, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Payment:  NewPaymentHandler(service.Payment, log),
		Review:   NewReviewHandler(service.Review, log),
		Admin:    NewAdminHandler(service.Admin, log),
	}
}

// respondError maps a service error onto the response envelope. Client
// errors are logged at Warn, anything unclassified is a 500 whose cause
// only reaches the log.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		log.Warn(operation+" validation failed", zap.Any("errors", validationErr.Fields))
		utils.ResponseValidation(w, validationErr.Fields)
		return
	}

	var domainErr *usecase.Error
	if !errors.As(err, &domainErr) {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected", zap.Error(err), zap.String("operation", operation))

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseNotFound(w, domainErr.Error())
	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, domainErr.Error())
	case errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, domainErr.Error())
	default:
		// validation and conflict
		utils.ResponseBadRequest(w, domainErr.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// principal reads the authenticated caller set by the auth middleware.
func principal(w http.ResponseWriter, r *http.Request) (utils.Principal, bool) {
	p, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.Principal{}, false
	}
	return p, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}
