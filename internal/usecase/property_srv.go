package usecase

import (
	"context"
	"encoding/json"
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

const (
	defaultPropertyPageSize = 12
	defaultBedrooms         = 1
	defaultBathrooms        = 1
	defaultMaxGuests        = 2
)

type PropertyService interface {
	ListPublic(ctx context.Context, req *request.PropertyListRequest) (*response.PaginatedResponse[response.PropertyResponse], error)
	GetProperty(ctx context.Context, id uuid.UUID, viewer *utils.Principal) (*response.PropertyResponse, error)
	ListOwned(ctx context.Context, principal utils.Principal) ([]response.PropertyResponse, error)
	CreateProperty(ctx context.Context, principal utils.Principal, req *request.CreatePropertyRequest) (*response.PropertyResponse, error)
	UpdateProperty(ctx context.Context, principal utils.Principal, id uuid.UUID, req *request.UpdatePropertyRequest) (*response.PropertyResponse, error)
	DeleteProperty(ctx context.Context, principal utils.Principal, id uuid.UUID) error
}

type propertyService struct {
	repo      *repository.Repository
	cache     cache.Cache
	publisher broker.Publisher
	ttl       time.Duration
	log       *zap.Logger
}

func NewPropertyService(repo *repository.Repository, c cache.Cache, publisher broker.Publisher, ttl time.Duration, log *zap.Logger) PropertyService {
	return &propertyService{
		repo:      repo,
		cache:     c,
		publisher: publisher,
		ttl:       ttl,
		log:       log.With(zap.String("service", "property")),
	}
}

func (s *propertyService) ListPublic(ctx context.Context, req *request.PropertyListRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	if req.Limit == 0 {
		req.Limit = defaultPropertyPageSize
	}
	req.PaginatedRequest = request.NewPaginatedRequest(req.Page, req.Limit)
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.PropertyFilter{
		Type:         req.Type,
		Location:     strings.TrimSpace(req.Location),
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		MinBedrooms:  req.Bedrooms,
		MinBathrooms: req.Bathrooms,
		Search:       strings.TrimSpace(req.Search),
	}

	key, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode listing key: %w", err)
	}

	return cache.Remember(ctx, s.cache, s.log, cache.PrefixProperties+"list:"+string(key), s.ttl,
		func() (*response.PaginatedResponse[response.PropertyResponse], error) {
			return s.loadPublic(ctx, filter, req.PaginatedRequest)
		})
}

func (s *propertyService) loadPublic(ctx context.Context, filter repository.PropertyFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	properties, err := s.repo.Property.FindPublic(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("find public properties: %w", err)
	}

	total, err := s.repo.Property.CountPublic(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count public properties: %w", err)
	}

	items, err := s.withRatings(ctx, properties)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit, total), nil
}

func (s *propertyService) withRatings(ctx context.Context, properties []*entity.Property) ([]response.PropertyResponse, error) {
	ids := make([]uuid.UUID, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}

	ratings, err := s.repo.Property.RatingsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	items := make([]response.PropertyResponse, len(properties))
	for i, p := range properties {
		items[i] = response.PropertyToResponse(p, ratings[p.ID])
	}
	return items, nil
}

// GetProperty hides unapproved or inactive properties from everyone but
// their owner and admins.
func (s *propertyService) GetProperty(ctx context.Context, id uuid.UUID, viewer *utils.Principal) (*response.PropertyResponse, error) {
	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", id, err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	if !property.IsBookable() {
		if viewer == nil || policy.Authorize(*viewer, policy.PropertyViewAny, property.OwnerID) != nil {
			return nil, ErrPropertyNotFound
		}
	}

	rating, err := cache.Remember(ctx, s.cache, s.log, ratingCacheKey(id), s.ttl, func() (entity.PropertyRating, error) {
		avg, count, err := s.repo.Review.RatingSummary(ctx, id)
		return entity.PropertyRating{PropertyID: id, AvgRating: avg, ReviewCount: count}, err
	})
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}

	owner, err := s.repo.User.FindByID(ctx, property.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("find owner: %w", err)
	}

	resp := response.PropertyToResponse(property, rating)
	resp.Owner = response.UserToSummary(owner)
	return &resp, nil
}

func ratingCacheKey(propertyID uuid.UUID) string {
	return cache.PrefixProperties + "rating:" + propertyID.String()
}

func (s *propertyService) ListOwned(ctx context.Context, principal utils.Principal) ([]response.PropertyResponse, error) {
	if err := policy.Authorize(principal, policy.PropertyListOwned); err != nil {
		return nil, ErrAccessDenied
	}

	properties, err := s.repo.Property.FindByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("find owner properties: %w", err)
	}
	return s.withRatings(ctx, properties)
}

func (s *propertyService) CreateProperty(ctx context.Context, principal utils.Principal, req *request.CreatePropertyRequest) (*response.PropertyResponse, error) {
	if err := policy.Authorize(principal, policy.PropertyCreate); err != nil {
		return nil, ErrAccessDenied
	}
	if err := validate(req); err != nil {
		s.log.Warn("Create property validation failed", zap.Error(err))
		return nil, err
	}

	property := &entity.Property{
		Base:        entity.NewBase(time.Now()),
		OwnerID:     principal.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       roundMoney(*req.Price),
		Location:    strings.TrimSpace(req.Location),
		Address:     req.Address,
		Type:        entity.PropertyType(req.Type),
		Images:      nonNil(req.Images),
		Amenities:   nonNil(req.Amenities),
		Bedrooms:    intOr(req.Bedrooms, defaultBedrooms),
		Bathrooms:   intOr(req.Bathrooms, defaultBathrooms),
		MaxGuests:   intOr(req.MaxGuests, defaultMaxGuests),
		IsApproved:  false,
		IsActive:    true,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := s.repo.Property.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixAdminStats)

	s.log.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("owner_id", principal.UserID.String()),
	)

	resp := response.PropertyToResponse(property, entity.PropertyRating{})
	return &resp, nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, principal utils.Principal, id uuid.UUID, req *request.UpdatePropertyRequest) (*response.PropertyResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find property %s: %w", id, err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	if err := policy.Authorize(principal, policy.PropertyUpdate, property.OwnerID); err != nil {
		s.log.Warn("Property update denied",
			zap.String("property_id", id.String()),
			zap.String("user_id", principal.UserID.String()),
		)
		return nil, ErrAccessDenied
	}

	applyPropertyUpdate(property, req)
	property.UpdatedAt = time.Now()

	if err := s.repo.Property.Update(ctx, property); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixProperties)

	s.log.Info("Property updated", zap.String("property_id", id.String()))

	rating, err := s.repo.Property.RatingsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load rating: %w", err)
	}
	resp := response.PropertyToResponse(property, rating[id])
	return &resp, nil
}

func applyPropertyUpdate(p *entity.Property, req *request.UpdatePropertyRequest) {
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		p.Price = roundMoney(*req.Price)
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.Type != nil {
		p.Type = entity.PropertyType(*req.Type)
	}
	if req.Images != nil {
		p.Images = nonNil(*req.Images)
	}
	if req.Amenities != nil {
		p.Amenities = nonNil(*req.Amenities)
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.MaxGuests != nil {
		p.MaxGuests = *req.MaxGuests
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
}

func (s *propertyService) DeleteProperty(ctx context.Context, principal utils.Principal, id uuid.UUID) error {
	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find property %s: %w", id, err)
	}
	if property == nil {
		return ErrPropertyNotFound
	}

	if err := policy.Authorize(principal, policy.PropertyDelete, property.OwnerID); err != nil {
		return ErrAccessDenied
	}

	if err := s.repo.Property.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cache.PrefixProperties, cache.PrefixAdminStats)

	s.log.Info("Property deleted",
		zap.String("property_id", id.String()),
		zap.String("deleted_by", principal.UserID.String()),
	)
	return nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
