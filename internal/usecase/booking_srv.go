package usecase

import (
	"context"
	"fmt"
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/internal/data/repository"
	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/dto/response"
	"rental-marketplace/internal/policy"
	"rental-marketplace/pkg/broker"
	"rental-marketplace/pkg/cache"
	"rental-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, principal utils.Principal, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CheckAvailability(ctx context.Context, propertyID uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	GetCustomerBookings(ctx context.Context, principal utils.Principal) ([]response.BookingResponse, error)
	GetOwnerBookings(ctx context.Context, principal utils.Principal) ([]response.BookingResponse, error)
	GetBooking(ctx context.Context, principal utils.Principal, id uuid.UUID) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, principal utils.Principal, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)

	// CompleteFinishedStays marks confirmed bookings whose checkout day has
	// passed as completed.
	CompleteFinishedStays(ctx context.Context, now time.Time) (int, error)
}

type bookingService struct {
	repo      *repository.Repository
	cache     cache.Cache
	publisher broker.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, c cache.Cache, publisher broker.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		cache:     c,
		publisher: publisher,
		now:       time.Now,
		log:       log.With(zap.String("service", "booking")),
	}
}

// CreateBooking holds the property row lock from the availability check
// until the insert commits, so two requests for overlapping dates cannot
// both succeed.
func (s *bookingService) CreateBooking(ctx context.Context, principal utils.Principal, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := policy.Authorize(principal, policy.BookingCreate); err != nil {
		return nil, ErrAccessDenied
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, invalidField("property_id", "Must be a valid UUID")
	}

	stay, err := ParseStayDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	guests := intOr(req.Guests, 1)

	var (
		booking  *entity.Booking
		property *entity.Property
		quote    *Quote
	)

	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Property.FindByIDForUpdate(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("lock property %s: %w", propertyID, err)
		}
		if p == nil {
			return ErrPropertyNotFound
		}

		q, err := QuoteStay(p, stay, guests)
		if err != nil {
			return err
		}

		conflicts, err := tx.Booking.FindConflicting(ctx, p.ID, stay.Start, stay.End)
		if err != nil {
			return fmt.Errorf("find conflicting bookings: %w", err)
		}
		if len(conflicts) > 0 {
			return ErrBookingConflict
		}

		b := &entity.Booking{
			Base:        entity.NewBase(s.now()),
			PropertyID:  p.ID,
			CustomerID:  principal.UserID,
			StartDate:   stay.Start,
			EndDate:     stay.End,
			Guests:      guests,
			TotalAmount: q.Total,
			Status:      entity.BookingStatusPending,
			Notes:       req.Notes,
		}
		if err := tx.Booking.Create(ctx, b); err != nil {
			return err
		}

		booking, property, quote = b, p, q
		return nil
	})
	if err != nil {
		if repository.IsOverlap(err) {
			s.log.Warn("Booking lost overlap race",
				zap.String("property_id", propertyID.String()),
				zap.Error(err),
			)
			return nil, ErrBookingConflict
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("property_id", property.ID.String()),
		zap.String("customer_id", principal.UserID.String()),
		zap.Int("nights", quote.Nights),
		zap.Float64("total_amount", booking.TotalAmount),
	)

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixAdminStats)
	publish(ctx, s.publisher, s.log, broker.BookingCreated, bookingEvent(booking))

	customer, err := s.repo.User.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	resp := response.BookingToResponse(booking, quote.Nights)
	resp.Property = response.PropertyToSummary(property)
	resp.Customer = response.UserToSummary(customer)
	return &resp, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, propertyID uuid.UUID, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if req.Guests == 0 {
		req.Guests = 1
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	stay, err := ParseStayDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", propertyID, err)
	}
	if property == nil || !property.IsBookable() {
		return nil, ErrPropertyNotFound
	}

	quote, err := QuoteStay(property, stay, req.Guests)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.repo.Booking.FindConflicting(ctx, propertyID, stay.Start, stay.End)
	if err != nil {
		return nil, fmt.Errorf("find conflicting bookings: %w", err)
	}

	return &response.AvailabilityResponse{
		PropertyID:          propertyID.String(),
		StartDate:           stay.Start.Format(DateLayout),
		EndDate:             stay.End.Format(DateLayout),
		Available:           len(conflicts) == 0,
		Nights:              quote.Nights,
		PricePerNight:       quote.PricePerNight,
		TotalAmount:         quote.Total,
		ConflictingBookings: len(conflicts),
	}, nil
}

func (s *bookingService) GetCustomerBookings(ctx context.Context, principal utils.Principal) ([]response.BookingResponse, error) {
	if err := policy.Authorize(principal, policy.BookingListCustomer); err != nil {
		return nil, ErrAccessDenied
	}

	bookings, err := s.repo.Booking.FindByCustomer(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("find customer bookings: %w", err)
	}
	return s.enrich(ctx, bookings, false)
}

func (s *bookingService) GetOwnerBookings(ctx context.Context, principal utils.Principal) ([]response.BookingResponse, error) {
	if err := policy.Authorize(principal, policy.BookingListOwner); err != nil {
		return nil, ErrAccessDenied
	}

	bookings, err := s.repo.Booking.FindByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("find owner bookings: %w", err)
	}
	return s.enrich(ctx, bookings, true)
}

func (s *bookingService) GetBooking(ctx context.Context, principal utils.Principal, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", id, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	property, err := s.repo.Property.FindByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", booking.PropertyID, err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	if err := policy.Authorize(principal, policy.BookingView, booking.CustomerID, property.OwnerID); err != nil {
		return nil, ErrAccessDenied
	}

	items, err := s.enrich(ctx, []*entity.Booking{booking}, true)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// UpdateBookingStatus lets the property owner and admins move a booking
// along its lifecycle. The booking's customer may only cancel it.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, principal utils.Principal, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	next := entity.BookingStatus(req.Status)

	var (
		booking  *entity.Booking
		previous entity.BookingStatus
	)

	err := withinTx(ctx, s.repo, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", id, err)
		}
		if b == nil {
			return ErrBookingNotFound
		}

		p, err := tx.Property.FindByID(ctx, b.PropertyID)
		if err != nil {
			return fmt.Errorf("find property %s: %w", b.PropertyID, err)
		}
		if p == nil {
			return ErrPropertyNotFound
		}

		if err := policy.Authorize(principal, policy.BookingUpdateStatus, b.CustomerID, p.OwnerID); err != nil {
			return ErrAccessDenied
		}
		if !principal.IsAdmin() && principal.UserID == b.CustomerID && next != entity.BookingStatusCancelled {
			return ErrCustomerMayOnlyCancel
		}
		if !b.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if err := tx.Booking.UpdateStatus(ctx, b.ID, next); err != nil {
			return err
		}

		if next == entity.BookingStatusCancelled {
			if err := refundCompletedPayment(ctx, tx, b.ID); err != nil {
				return err
			}
		}

		previous = b.Status
		b.Status = next
		b.UpdatedAt = s.now()
		booking = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update booking %s status: %w", id, err)
	}

	s.log.Info("Booking status updated",
		zap.String("booking_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
		zap.String("changed_by", principal.UserID.String()),
	)

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixAdminStats)
	publish(ctx, s.publisher, s.log, broker.BookingStatusChanged, BookingStatusEvent{
		BookingID: id,
		From:      string(previous),
		To:        string(next),
		ChangedBy: principal.UserID,
	})

	items, err := s.enrich(ctx, []*entity.Booking{booking}, true)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// refundCompletedPayment marks a settled payment of a cancelled booking as
// refunded.
func refundCompletedPayment(ctx context.Context, tx *repository.Repository, bookingID uuid.UUID) error {
	payment, err := tx.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("find payment of booking %s: %w", bookingID, err)
	}
	if payment == nil || payment.Status != entity.PaymentStatusCompleted {
		return nil
	}

	payment.Status = entity.PaymentStatusRefunded
	payment.UpdatedAt = time.Now()
	return tx.Payment.Update(ctx, payment)
}

func (s *bookingService) CompleteFinishedStays(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.repo.Booking.CompleteEndedBy(ctx, truncateToDay(now))
	if err != nil {
		return 0, fmt.Errorf("complete finished stays: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	for _, id := range ids {
		publish(ctx, s.publisher, s.log, broker.BookingCompleted, BookingCompletedEvent{BookingID: id, CompletedAt: now})
	}
	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixAdminStats)

	s.log.Info("Completed finished stays", zap.Int("count", len(ids)))
	return len(ids), nil
}

// enrich attaches property, payment and optionally customer summaries.
func (s *bookingService) enrich(ctx context.Context, bookings []*entity.Booking, withCustomer bool) ([]response.BookingResponse, error) {
	propertyIDs := make([]uuid.UUID, 0, len(bookings))
	customerIDs := make([]uuid.UUID, 0, len(bookings))
	bookingIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		propertyIDs = append(propertyIDs, b.PropertyID)
		customerIDs = append(customerIDs, b.CustomerID)
		bookingIDs = append(bookingIDs, b.ID)
	}

	properties, err := s.repo.Property.FindByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("load booked properties: %w", err)
	}

	payments, err := s.repo.Payment.FindByBookingIDs(ctx, bookingIDs)
	if err != nil {
		return nil, fmt.Errorf("load booking payments: %w", err)
	}

	customers := map[uuid.UUID]*entity.User{}
	if withCustomer {
		customers, err = s.repo.User.FindByIDs(ctx, customerIDs)
		if err != nil {
			return nil, fmt.Errorf("load booking customers: %w", err)
		}
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		item := response.BookingToResponse(b, CountNights(b.StartDate, b.EndDate))
		item.Property = response.PropertyToSummary(properties[b.PropertyID])
		item.Payment = response.PaymentToSummary(payments[b.ID])
		if withCustomer {
			item.Customer = response.UserToSummary(customers[b.CustomerID])
		}
		items[i] = item
	}
	return items, nil
}

func bookingEvent(b *entity.Booking) BookingEvent {
	return BookingEvent{
		BookingID:   b.ID,
		PropertyID:  b.PropertyID,
		CustomerID:  b.CustomerID,
		StartDate:   b.StartDate.Format(DateLayout),
		EndDate:     b.EndDate.Format(DateLayout),
		TotalAmount: b.TotalAmount,
		Status:      string(b.Status),
	}
}
