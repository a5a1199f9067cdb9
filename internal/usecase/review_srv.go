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
	"rental-marketplace/pkg/cache"
	"rental-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, principal utils.Principal, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetPropertyReviews(ctx context.Context, propertyID uuid.UUID, req *request.PaginatedRequest) (*response.PropertyReviewsResponse, error)
	UpdateReview(ctx context.Context, principal utils.Principal, id uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, principal utils.Principal, id uuid.UUID) error
}

type reviewService struct {
	repo  *repository.Repository
	cache cache.Cache
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, c cache.Cache, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "review")),
	}
}

// CreateReview accepts one review per user and property, and only from
// customers with a completed stay there.
func (s *reviewService) CreateReview(ctx context.Context, principal utils.Principal, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	if err := policy.Authorize(principal, policy.ReviewCreate); err != nil {
		return nil, ErrAccessDenied
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, invalidField("property_id", "Must be a valid UUID")
	}

	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", propertyID, err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	stayed, err := s.repo.Booking.HasCompletedStay(ctx, principal.UserID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("check completed stay: %w", err)
	}
	if !stayed {
		return nil, ErrReviewNotEligible
	}

	existing, err := s.repo.Review.FindByUserAndProperty(ctx, principal.UserID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateReview
	}

	review := &entity.Review{
		Base:       entity.NewBase(time.Now()),
		PropertyID: propertyID,
		UserID:     principal.UserID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixProperties)

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("property_id", propertyID.String()),
		zap.Int("rating", review.Rating),
	)

	return s.toResponse(ctx, review)
}

func (s *reviewService) GetPropertyReviews(ctx context.Context, propertyID uuid.UUID, req *request.PaginatedRequest) (*response.PropertyReviewsResponse, error) {
	page := request.NewPaginatedRequest(req.Page, req.Limit)

	reviews, err := s.repo.Review.FindByProperty(ctx, propertyID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("find property reviews: %w", err)
	}

	total, err := s.repo.Review.CountByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("count property reviews: %w", err)
	}

	avg, count, err := s.repo.Review.RatingSummary(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}

	userIDs := make([]uuid.UUID, len(reviews))
	for i, r := range reviews {
		userIDs[i] = r.UserID
	}
	users, err := s.repo.User.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load reviewers: %w", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i, r := range reviews {
		items[i] = response.ReviewToResponse(r, reviewerName(users[r.UserID]))
	}

	return &response.PropertyReviewsResponse{
		Reviews:     items,
		AvgRating:   utils.RoundRating(avg),
		ReviewCount: count,
		Pagination:  response.NewPaginationMeta(page.Page, page.Limit, total),
	}, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, principal utils.Principal, id uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find review %s: %w", id, err)
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	if err := policy.Authorize(principal, policy.ReviewUpdate, review.UserID); err != nil {
		return nil, ErrAccessDenied
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixProperties)

	s.log.Info("Review updated", zap.String("review_id", id.String()))
	return s.toResponse(ctx, review)
}

func (s *reviewService) DeleteReview(ctx context.Context, principal utils.Principal, id uuid.UUID) error {
	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find review %s: %w", id, err)
	}
	if review == nil {
		return ErrReviewNotFound
	}

	if err := policy.Authorize(principal, policy.ReviewDelete, review.UserID); err != nil {
		return ErrAccessDenied
	}

	if err := s.repo.Review.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixProperties)

	s.log.Info("Review deleted",
		zap.String("review_id", id.String()),
		zap.String("deleted_by", principal.UserID.String()),
	)
	return nil
}

func (s *reviewService) toResponse(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	user, err := s.repo.User.FindByID(ctx, review.UserID)
	if err != nil {
		return nil, fmt.Errorf("find reviewer: %w", err)
	}
	resp := response.ReviewToResponse(review, reviewerName(user))
	return &resp, nil
}

func reviewerName(user *entity.User) string {
	if user == nil {
		return ""
	}
	return user.Name
}
