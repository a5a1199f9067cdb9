package response

import (
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/pkg/utils"
)

type PropertyResponse struct {
	ID          string              `json:"id"`
	OwnerID     string              `json:"owner_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	Location    string              `json:"location"`
	Address     *string             `json:"address,omitempty"`
	Type        entity.PropertyType `json:"type"`
	Images      []string            `json:"images"`
	Amenities   []string            `json:"amenities"`
	Bedrooms    int                 `json:"bedrooms"`
	Bathrooms   int                 `json:"bathrooms"`
	MaxGuests   int                 `json:"max_guests"`
	IsApproved  bool                `json:"is_approved"`
	IsActive    bool                `json:"is_active"`
	Latitude    *float64            `json:"latitude,omitempty"`
	Longitude   *float64            `json:"longitude,omitempty"`
	AvgRating   float64             `json:"avg_rating"`
	ReviewCount int64               `json:"review_count"`
	Owner       *UserSummary        `json:"owner,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// PropertySummary is embedded in bookings.
type PropertySummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Price    float64  `json:"price"`
	Images   []string `json:"images"`
}

func PropertyToResponse(p *entity.Property, rating entity.PropertyRating) PropertyResponse {
	images, amenities := p.Images, p.Amenities
	if images == nil {
		images = []string{}
	}
	if amenities == nil {
		amenities = []string{}
	}

	return PropertyResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Location:    p.Location,
		Address:     p.Address,
		Type:        p.Type,
		Images:      images,
		Amenities:   amenities,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		MaxGuests:   p.MaxGuests,
		IsApproved:  p.IsApproved,
		IsActive:    p.IsActive,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		AvgRating:   utils.RoundRating(rating.AvgRating),
		ReviewCount: rating.ReviewCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func PropertyToSummary(p *entity.Property) *PropertySummary {
	if p == nil {
		return nil
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &PropertySummary{
		ID:       p.ID.String(),
		Title:    p.Title,
		Location: p.Location,
		Price:    p.Price,
		Images:   images,
	}
}
