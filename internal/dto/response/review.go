package response

import (
	"time"

	"rental-marketplace/internal/data/entity"
)

type ReviewResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PropertyReviewsResponse struct {
	Reviews     []ReviewResponse `json:"reviews"`
	AvgRating   float64          `json:"avg_rating"`
	ReviewCount int64            `json:"review_count"`
	Pagination  PaginationMeta   `json:"pagination"`
}

func ReviewToResponse(review *entity.Review, userName string) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		PropertyID: review.PropertyID.String(),
		UserID:     review.UserID.String(),
		UserName:   userName,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}
