package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-marketplace/internal/data/repository"
	"rental-marketplace/pkg/broker"
	"rental-marketplace/pkg/cache"
	"rental-marketplace/pkg/payment"
	"rental-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Property PropertyService
	Booking  BookingService
	Payment  PaymentService
	Review   ReviewService
	Admin    AdminService
}

// Deps are the infrastructure collaborators shared by every service.
type Deps struct {
	Repo      *repository.Repository
	Config    *utils.Config
	Cache     cache.Cache
	Publisher broker.Publisher
	Payments  *payment.Registry
	Log       *zap.Logger
}

func NewService(deps Deps) *Service {
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}
	if deps.Publisher == nil {
		deps.Publisher = broker.Nop{}
	}

	return &Service{
		Auth:     NewAuthService(deps.Repo, deps.Config, deps.Cache, deps.Log),
		Property: NewPropertyService(deps.Repo, deps.Cache, deps.Publisher, cacheTTL(deps.Config), deps.Log),
		Booking:  NewBookingService(deps.Repo, deps.Cache, deps.Publisher, deps.Log),
		Payment:  NewPaymentService(deps.Repo, deps.Payments, deps.Publisher, deps.Log),
		Review:   NewReviewService(deps.Repo, deps.Cache, deps.Log),
		Admin:    NewAdminService(deps.Repo, deps.Cache, deps.Publisher, cacheTTL(deps.Config), deps.Log),
	}
}

func cacheTTL(config *utils.Config) time.Duration {
	if config == nil || config.Redis.TTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(config.Redis.TTLSeconds) * time.Second
}

// publish sends an event without letting a broker outage fail the request.
func publish(ctx context.Context, publisher broker.Publisher, log *zap.Logger, routingKey string, data any) {
	if err := publisher.Publish(ctx, routingKey, data); err != nil {
		log.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}

// withinTx runs fn in one transaction and turns a lost serialization race
// into ErrConcurrentUpdate.
func withinTx(ctx context.Context, repo *repository.Repository, fn func(tx *repository.Repository) error) error {
	err := repo.WithinTx(ctx, fn)
	if errors.Is(err, repository.ErrSerialization) {
		return fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
	}
	return err
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return invalidFields(errs)
	}
	return nil
}
