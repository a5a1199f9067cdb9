package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Booking, error)

	// Business queries
	FindConflicting(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*entity.Booking, error)
	HasCompletedStay(ctx context.Context, customerID, propertyID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error
	CompleteEndedBy(ctx context.Context, day time.Time) ([]uuid.UUID, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status entity.BookingStatus) (int64, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.property_id, b.customer_id, b.start_date, b.end_date, b.guests,
	b.total_amount, b.status, b.notes, b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.PropertyID,
		&b.CustomerID,
		&b.StartDate,
		&b.EndDate,
		&b.Guests,
		&b.TotalAmount,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return bookings, nil
}

// Create inserts the booking. Losing a race against an overlapping booking
// yields ErrOverlap.
func (r *bookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, property_id, customer_id, start_date, end_date, guests,
		                      total_amount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.PropertyID,
		b.CustomerID,
		b.StartDate,
		b.EndDate,
		b.Guests,
		b.TotalAmount,
		b.Status,
		b.Notes,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		if IsOverlap(err) {
			r.log.Warn("Booking insert rejected by overlap constraint",
				zap.String("property_id", b.PropertyID.String()),
				zap.Error(err),
			)
			return fmt.Errorf("create booking for property %s: %w", b.PropertyID.String(), ErrOverlap)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("property_id", b.PropertyID.String()),
			zap.String("customer_id", b.CustomerID.String()),
		)
		return fmt.Errorf("create booking for property %s: %w", b.PropertyID.String(), err)
	}

	return nil
}

func (r *bookingRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}
	return b, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = $1`, id)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = $1 FOR UPDATE`, id)
}

func (r *bookingRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.customer_id = $1 ORDER BY b.created_at DESC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.log.Error("Failed to find bookings by customer",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("find bookings by customer %s: %w", customerID.String(), err)
	}
	return r.collect(rows)
}

// FindByOwner lists bookings made against any property of the owner.
func (r *bookingRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN properties p ON p.id = b.property_id
		WHERE p.owner_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to find bookings by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find bookings by owner %s: %w", ownerID.String(), err)
	}
	return r.collect(rows)
}

// FindConflicting returns pending or confirmed bookings of the property whose
// [start_date, end_date) intersects [start, end).
func (r *bookingRepository) FindConflicting(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.property_id = $1
		  AND b.status IN ('pending', 'confirmed')
		  AND b.start_date < $3
		  AND $2 < b.end_date
		ORDER BY b.start_date
	`

	rows, err := r.db.Query(ctx, query, propertyID, start, end)
	if err != nil {
		r.log.Error("Failed to find conflicting bookings",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find conflicting bookings for property %s: %w", propertyID.String(), err)
	}
	return r.collect(rows)
}

func (r *bookingRepository) HasCompletedStay(ctx context.Context, customerID, propertyID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE customer_id = $1 AND property_id = $2 AND status = 'completed'
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, customerID, propertyID).Scan(&exists); err != nil {
		r.log.Error("Failed to check completed stay",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
			zap.String("property_id", propertyID.String()),
		)
		return false, fmt.Errorf("check completed stay of %s at %s: %w", customerID.String(), propertyID.String(), err)
	}
	return exists, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	result, err := r.db.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}
	return nil
}

// CompleteEndedBy marks confirmed bookings whose stay ended on or before day
// as completed and returns their ids.
func (r *bookingRepository) CompleteEndedBy(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	query := `
		UPDATE bookings
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed' AND end_date <= $1
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, day)
	if err != nil {
		r.log.Error("Failed to complete finished stays", zap.Error(err))
		return nil, fmt.Errorf("complete stays ended by %s: %w", day.Format(time.DateOnly), err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completed booking id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed booking ids: %w", err)
	}
	return ids, nil
}

func (r *bookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context, status entity.BookingStatus) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE status = $1`, status).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by status",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("count bookings by status %s: %w", status, err)
	}
	return count, nil
}
