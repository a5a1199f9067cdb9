package usecase

import (
	"context"
	"fmt"
	"strings"
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

type AdminService interface {
	Stats(ctx context.Context, principal utils.Principal) (*response.StatsResponse, error)
	ListUsers(ctx context.Context, principal utils.Principal, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error)
	ToggleUserStatus(ctx context.Context, principal utils.Principal, id uuid.UUID) (*response.UserResponse, error)

	// Moderation
	ListPendingProperties(ctx context.Context, principal utils.Principal, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PropertyResponse], error)
	ApproveProperty(ctx context.Context, principal utils.Principal, id uuid.UUID) (*response.PropertyResponse, error)
	RejectProperty(ctx context.Context, principal utils.Principal, id uuid.UUID) error
}

type adminService struct {
	repo      *repository.Repository
	cache     cache.Cache
	publisher broker.Publisher
	ttl       time.Duration
	log       *zap.Logger
}

func NewAdminService(repo *repository.Repository, c cache.Cache, publisher broker.Publisher, ttl time.Duration, log *zap.Logger) AdminService {
	return &adminService{
		repo:      repo,
		cache:     c,
		publisher: publisher,
		ttl:       ttl,
		log:       log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) Stats(ctx context.Context, principal utils.Principal) (*response.StatsResponse, error) {
	if err := policy.Authorize(principal, policy.AdminAccess); err != nil {
		return nil, ErrAccessDenied
	}

	return cache.Remember(ctx, s.cache, s.log, cache.PrefixAdminStats, s.ttl, func() (*response.StatsResponse, error) {
		return s.loadStats(ctx)
	})
}

func (s *adminService) loadStats(ctx context.Context) (*response.StatsResponse, error) {
	var (
		stats response.StatsResponse
		err   error
	)

	if stats.TotalUsers, err = s.repo.User.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.ActiveUsers, err = s.repo.User.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	if stats.TotalProperties, err = s.repo.Property.Count(ctx); err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}
	if stats.PendingProperties, err = s.repo.Property.CountPending(ctx); err != nil {
		return nil, fmt.Errorf("count pending properties: %w", err)
	}
	if stats.TotalBookings, err = s.repo.Booking.Count(ctx); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if stats.CompletedBookings, err = s.repo.Booking.CountByStatus(ctx, entity.BookingStatusCompleted); err != nil {
		return nil, fmt.Errorf("count completed bookings: %w", err)
	}

	return &stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, principal utils.Principal, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := policy.Authorize(principal, policy.AdminAccess); err != nil {
		return nil, ErrAccessDenied
	}

	req.PaginatedRequest = request.NewPaginatedRequest(req.Page, req.Limit)
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.UserFilter{
		Role:   req.Role,
		Search: strings.TrimSpace(req.Search),
	}

	users, err := s.repo.User.List(ctx, filter, req.Limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.repo.User.CountFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	items := make([]response.UserResponse, len(users))
	for i, u := range users {
		items[i] = response.UserToResponse(u)
	}
	return response.NewPaginatedResponse(items, req.Page, req.Limit, total), nil
}

// ToggleUserStatus flips a user's active flag. Admins cannot deactivate
// themselves.
func (s *adminService) ToggleUserStatus(ctx context.Context, principal utils.Principal, id uuid.UUID) (*response.UserResponse, error) {
	if err := policy.Authorize(principal, policy.AdminAccess); err != nil {
		return nil, ErrAccessDenied
	}
	if id == principal.UserID {
		return nil, ErrSelfStatusChange
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.IsActive = !user.IsActive
	if err := s.repo.User.SetActive(ctx, id, user.IsActive); err != nil {
		return nil, fmt.Errorf("set user %s active: %w", id, err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixAdminStats)

	s.log.Info("User status toggled",
		zap.String("user_id", id.String()),
		zap.Bool("is_active", user.IsActive),
		zap.String("changed_by", principal.UserID.String()),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) ListPendingProperties(ctx context.Context, principal utils.Principal, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	if err := policy.Authorize(principal, policy.AdminAccess); err != nil {
		return nil, ErrAccessDenied
	}

	page := request.NewPaginatedRequest(req.Page, req.Limit)

	properties, err := s.repo.Property.FindPending(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("find pending properties: %w", err)
	}

	total, err := s.repo.Property.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending properties: %w", err)
	}

	ownerIDs := make([]uuid.UUID, len(properties))
	for i, p := range properties {
		ownerIDs[i] = p.OwnerID
	}
	owners, err := s.repo.User.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}

	items := make([]response.PropertyResponse, len(properties))
	for i, p := range properties {
		items[i] = response.PropertyToResponse(p, entity.PropertyRating{PropertyID: p.ID})
		items[i].Owner = response.UserToSummary(owners[p.OwnerID])
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit, total), nil
}

func (s *adminService) ApproveProperty(ctx context.Context, principal utils.Principal, id uuid.UUID) (*response.PropertyResponse, error) {
	if err := policy.Authorize(principal, policy.AdminAccess); err != nil {
		return nil, ErrAccessDenied
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", id, err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	if err := s.repo.Property.SetApproved(ctx, id, true); err != nil {
		return nil, fmt.Errorf("approve property %s: %w", id, err)
	}
	property.IsApproved = true
	property.UpdatedAt = time.Now()

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixProperties, cache.PrefixAdminStats)
	publish(ctx, s.publisher, s.log, broker.PropertyApproved, PropertyModeratedEvent{
		PropertyID:  id,
		OwnerID:     property.OwnerID,
		ModeratedBy: principal.UserID,
	})

	s.log.Info("Property approved",
		zap.String("property_id", id.String()),
		zap.String("approved_by", principal.UserID.String()),
	)

	resp := response.PropertyToResponse(property, entity.PropertyRating{PropertyID: id})
	return &resp, nil
}

// RejectProperty removes a property from moderation by deleting it.
func (s *adminService) RejectProperty(ctx context.Context, principal utils.Principal, id uuid.UUID) error {
	if err := policy.Authorize(principal, policy.AdminAccess); err != nil {
		return ErrAccessDenied
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find property %s: %w", id, err)
	}
	if property == nil {
		return ErrPropertyNotFound
	}

	if err := s.repo.Property.Delete(ctx, id); err != nil {
		return fmt.Errorf("reject property %s: %w", id, err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixProperties, cache.PrefixAdminStats)
	publish(ctx, s.publisher, s.log, broker.PropertyRejected, PropertyModeratedEvent{
		PropertyID:  id,
		OwnerID:     property.OwnerID,
		ModeratedBy: principal.UserID,
	})

	s.log.Warn("Property rejected",
		zap.String("property_id", id.String()),
		zap.String("rejected_by", principal.UserID.String()),
	)
	return nil
}
