package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error)
	FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	RatingSummary(ctx context.Context, propertyID uuid.UUID) (float64, int64, error) // avg, count
}

type reviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewRepository(db database.Querier, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, property_id, user_id, rating, comment, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.PropertyID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create inserts the review. A second review of the same property by the
// same user yields ErrDuplicate.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, property_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.PropertyID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if database.PgErrorCode(err) == database.CodeUniqueViolation {
			return fmt.Errorf("create review for property %s by user %s: %w",
				review.PropertyID.String(), review.UserID.String(), ErrDuplicate)
		}
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("property_id", review.PropertyID.String()),
		)
		return fmt.Errorf("create review for property %s by user %s: %w",
			review.PropertyID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}
	return review, nil
}

func (r *reviewRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE property_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, propertyID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by property",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find reviews by property %s: %w", propertyID.String(), err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) CountByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE property_id = $1`, propertyID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by property",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return 0, fmt.Errorf("count reviews by property %s: %w", propertyID.String(), err)
	}
	return count, nil
}

func (r *reviewRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND property_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, propertyID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and property",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find review of property %s by user %s: %w", propertyID.String(), userID.String(), err)
	}
	return review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `UPDATE reviews SET rating = $2, comment = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, review.ID, review.Rating, review.Comment, review.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}
	return nil
}

func (r *reviewRepository) RatingSummary(ctx context.Context, propertyID uuid.UUID) (float64, int64, error) {
	query := `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE property_id = $1`

	var avg float64
	var count int64
	if err := r.db.QueryRow(ctx, query, propertyID).Scan(&avg, &count); err != nil {
		r.log.Error("Failed to get property rating summary",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return 0, 0, fmt.Errorf("rating summary of property %s: %w", propertyID.String(), err)
	}
	return avg, count, nil
}
