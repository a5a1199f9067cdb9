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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	FindByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]*entity.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error)
	FindByTransactionIDForUpdate(ctx context.Context, transactionID string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
}

type paymentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentRepository(db database.Querier, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, method, amount, status, transaction_id, phone_number, card_last4, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Method,
		&p.Amount,
		&p.Status,
		&p.TransactionID,
		&p.PhoneNumber,
		&p.CardLast4,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the payment. A second payment for the same booking yields ErrDuplicate.
func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, method, amount, status, transaction_id,
		                      phone_number, card_last4, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Method,
		payment.Amount,
		payment.Status,
		payment.TransactionID,
		payment.PhoneNumber,
		payment.CardLast4,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		if database.PgErrorCode(err) == database.CodeUniqueViolation {
			return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), ErrDuplicate)
		}
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("method", string(payment.Method)),
		)
		return fmt.Errorf("create payment for booking %s: %w", payment.BookingID.String(), err)
	}

	return nil
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = $1`, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find payment by booking ID %s: %w", bookingID.String(), err)
	}
	return payment, nil
}

func (r *paymentRepository) FindByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]*entity.Payment, error) {
	result := make(map[uuid.UUID]*entity.Payment, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE booking_id = ANY($1)`, bookingIDs)
	if err != nil {
		r.log.Error("Failed to find payments by booking IDs", zap.Error(err))
		return nil, fmt.Errorf("find payments by booking IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			r.log.Error("Failed to scan payment row", zap.Error(err))
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		result[payment.BookingID] = payment
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return result, nil
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*entity.Payment, error) {
	return r.findByTransaction(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1`, transactionID)
}

// FindByTransactionIDForUpdate locks the payment row until the surrounding
// transaction ends.
func (r *paymentRepository) FindByTransactionIDForUpdate(ctx context.Context, transactionID string) (*entity.Payment, error) {
	return r.findByTransaction(ctx, `SELECT `+paymentColumns+` FROM payments WHERE transaction_id = $1 FOR UPDATE`, transactionID)
}

func (r *paymentRepository) findByTransaction(ctx context.Context, query, transactionID string) (*entity.Payment, error) {
	payment, err := scanPayment(r.db.QueryRow(ctx, query, transactionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by transaction ID",
			zap.Error(err),
			zap.String("transaction_id", transactionID),
		)
		return nil, fmt.Errorf("find payment by transaction ID %s: %w", transactionID, err)
	}
	return payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments
		SET method = $2, amount = $3, status = $4, transaction_id = $5,
		    phone_number = $6, card_last4 = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Method,
		payment.Amount,
		payment.Status,
		payment.TransactionID,
		payment.PhoneNumber,
		payment.CardLast4,
		payment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update payment",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
		)
		return fmt.Errorf("update payment %s: %w", payment.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not found", payment.ID.String())
	}
	return nil
}
