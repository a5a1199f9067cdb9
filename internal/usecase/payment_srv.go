package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/internal/data/repository"
	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/dto/response"
	"rental-marketplace/internal/policy"
	"rental-marketplace/pkg/broker"
	"rental-marketplace/pkg/payment"
	"rental-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, principal utils.Principal, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error)
	ConfirmPayment(ctx context.Context, principal utils.Principal, req *request.ConfirmPaymentRequest) (*response.PaymentResponse, error)
}

type paymentService struct {
	repo      *repository.Repository
	providers *payment.Registry
	publisher broker.Publisher
	log       *zap.Logger
}

func NewPaymentService(repo *repository.Repository, providers *payment.Registry, publisher broker.Publisher, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:      repo,
		providers: providers,
		publisher: publisher,
		log:       log.With(zap.String("service", "payment")),
	}
}

// InitiatePayment creates the booking's payment, or resets a pending or
// failed one with a fresh transaction id, then hands it to the provider.
func (s *paymentService) InitiatePayment(ctx context.Context, principal utils.Principal, req *request.InitiatePaymentRequest) (*response.InitiatePaymentResponse, error) {
	if !policy.AllowsRole(policy.PaymentInitiate, principal.Role) {
		return nil, ErrAccessDenied
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, invalidField("booking_id", "Must be a valid UUID")
	}

	method := entity.PaymentMethod(req.Method)
	if method.IsMobileMoney() && req.PhoneNumber == "" {
		return nil, ErrPhoneNumberRequired
	}

	provider, err := s.providers.Get(payment.Method(method))
	if err != nil {
		return nil, invalidField("method", "Unsupported payment method")
	}

	var p *entity.Payment
	err = withinTx(ctx, s.repo, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", bookingID, err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}
		if err := policy.Authorize(principal, policy.PaymentInitiate, booking.CustomerID); err != nil {
			return ErrAccessDenied
		}
		if !booking.Status.HoldsDates() {
			return ErrBookingNotPayable
		}

		existing, err := tx.Payment.FindByBookingID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("find payment of booking %s: %w", bookingID, err)
		}
		if existing != nil && existing.Status == entity.PaymentStatusCompleted {
			return ErrPaymentAlreadyCompleted
		}

		now := time.Now()
		p = existing
		if p == nil {
			p = &entity.Payment{Base: entity.NewBase(now), BookingID: bookingID}
		}
		p.Method = method
		p.Amount = booking.TotalAmount
		p.Status = entity.PaymentStatusPending
		p.TransactionID = utils.GenerateTransactionID()
		p.PhoneNumber = nil
		p.CardLast4 = nil
		if method.IsMobileMoney() {
			p.PhoneNumber = &req.PhoneNumber
		}
		if method == entity.PaymentMethodCreditCard && req.CardDetails != nil {
			last4 := req.CardDetails.Last4
			p.CardLast4 = &last4
		}
		p.UpdatedAt = now

		if existing == nil {
			return tx.Payment.Create(ctx, p)
		}
		return tx.Payment.Update(ctx, p)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPaymentAlreadyCompleted
		}
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	charge := payment.Charge{TransactionID: p.TransactionID, Amount: p.Amount, PhoneNumber: req.PhoneNumber}
	if p.CardLast4 != nil {
		charge.CardLast4 = *p.CardLast4
	}

	dispatch, err := provider.Initiate(ctx, charge)
	if err != nil {
		s.log.Error("Payment provider rejected charge",
			zap.String("transaction_id", p.TransactionID),
			zap.String("method", string(method)),
			zap.Error(err),
		)
		s.markFailed(ctx, p)
		return nil, ErrPaymentInitiationFailed
	}

	s.log.Info("Payment initiated",
		zap.String("payment_id", p.ID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("transaction_id", p.TransactionID),
		zap.String("method", string(method)),
	)

	return &response.InitiatePaymentResponse{
		Payment: response.PaymentToResponse(p),
		Provider: response.ProviderResponse{
			Status:               dispatch.Status,
			Message:              dispatch.Message,
			ConfirmationRequired: dispatch.ConfirmationRequired,
		},
	}, nil
}

// ConfirmPayment settles a pending payment. Success confirms the booking in
// the same transaction; a rejected code marks the payment failed. Both
// outcomes are written under a lock on the booking and the payment, and only
// while the payment is still pending.
func (s *paymentService) ConfirmPayment(ctx context.Context, principal utils.Principal, req *request.ConfirmPaymentRequest) (*response.PaymentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.Payment.FindByTransactionID(ctx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("find payment %s: %w", req.TransactionID, err)
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}

	booking, err := s.repo.Booking.FindByID(ctx, p.BookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", p.BookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if err := policy.Authorize(principal, policy.PaymentConfirm, booking.CustomerID); err != nil {
		return nil, ErrAccessDenied
	}
	if err := requirePending(p); err != nil {
		return nil, err
	}

	provider, err := s.providers.Get(payment.Method(p.Method))
	if err != nil {
		return nil, fmt.Errorf("resolve provider: %w", err)
	}

	confirmed, err := provider.Confirm(ctx, payment.Confirmation{TransactionID: p.TransactionID, Code: req.ConfirmationCode})
	if err != nil {
		return nil, fmt.Errorf("confirm with provider: %w", err)
	}

	err = withinTx(ctx, s.repo, func(tx *repository.Repository) error {
		// booking before payment, the same order InitiatePayment locks in
		b, err := tx.Booking.FindByIDForUpdate(ctx, p.BookingID)
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", p.BookingID, err)
		}
		if b == nil {
			return ErrBookingNotFound
		}

		locked, err := tx.Payment.FindByTransactionIDForUpdate(ctx, p.TransactionID)
		if err != nil {
			return fmt.Errorf("lock payment %s: %w", p.TransactionID, err)
		}
		if locked == nil {
			// re-initiated meanwhile under a new transaction id
			return ErrPaymentNotPending
		}
		if err := requirePending(locked); err != nil {
			return err
		}

		locked.UpdatedAt = time.Now()
		if !confirmed {
			locked.Status = entity.PaymentStatusFailed
			p = locked
			return tx.Payment.Update(ctx, locked)
		}

		if !b.Status.HoldsDates() {
			return ErrBookingNotPayable
		}
		locked.Status = entity.PaymentStatusCompleted
		if err := tx.Payment.Update(ctx, locked); err != nil {
			return err
		}
		p = locked

		if b.Status == entity.BookingStatusPending {
			return tx.Booking.UpdateStatus(ctx, b.ID, entity.BookingStatusConfirmed)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("settle payment %s: %w", req.TransactionID, err)
	}

	if !confirmed {
		s.log.Warn("Payment confirmation rejected", zap.String("transaction_id", p.TransactionID))
		publish(ctx, s.publisher, s.log, broker.PaymentFailed, paymentEvent(p))
		return nil, ErrPaymentConfirmationFailed
	}

	s.log.Info("Payment confirmed",
		zap.String("payment_id", p.ID.String()),
		zap.String("booking_id", p.BookingID.String()),
		zap.String("transaction_id", p.TransactionID),
	)
	publish(ctx, s.publisher, s.log, broker.PaymentCompleted, paymentEvent(p))

	resp := response.PaymentToResponse(p)
	return &resp, nil
}

func requirePending(p *entity.Payment) error {
	switch p.Status {
	case entity.PaymentStatusPending:
		return nil
	case entity.PaymentStatusCompleted:
		return ErrPaymentAlreadyCompleted
	default:
		return ErrPaymentNotPending
	}
}

// markFailed fails a payment whose provider dispatch broke, unless another
// request has settled it first.
func (s *paymentService) markFailed(ctx context.Context, p *entity.Payment) {
	err := withinTx(ctx, s.repo, func(tx *repository.Repository) error {
		locked, err := tx.Payment.FindByTransactionIDForUpdate(ctx, p.TransactionID)
		if err != nil {
			return err
		}
		if locked == nil || locked.Status != entity.PaymentStatusPending {
			return nil
		}
		locked.Status = entity.PaymentStatusFailed
		locked.UpdatedAt = time.Now()
		return tx.Payment.Update(ctx, locked)
	})
	if err != nil {
		s.log.Error("Failed to mark payment failed",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err),
		)
	}
}

func paymentEvent(p *entity.Payment) PaymentEvent {
	return PaymentEvent{
		PaymentID:     p.ID,
		BookingID:     p.BookingID,
		TransactionID: p.TransactionID,
		Method:        string(p.Method),
		Amount:        p.Amount,
	}
}
