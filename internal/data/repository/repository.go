package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-marketplace/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrOverlap is returned when a booking insert loses against a
	// concurrent one, either through the exclusion constraint or a
	// serialization failure.
	ErrOverlap = errors.New("overlapping booking")
	// ErrSerialization is returned by WithinTx when postgres aborts the
	// transaction because a concurrent one touched the same rows.
	ErrSerialization = errors.New("transaction serialization failure")
)

type Repository struct {
	User     UserRepository
	Property PropertyRepository
	Booking  BookingRepository
	Payment  PaymentRepository
	Review   ReviewRepository

	runTx func(ctx context.Context, fn func(*Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositorySet(db, log)
	repo.runTx = func(ctx context.Context, fn func(*Repository) error) error {
		return database.InTx(ctx, db, pgx.Serializable, func(q database.Querier) error {
			return fn(newRepositorySet(q, log))
		})
	}
	return repo
}

func newRepositorySet(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(q, log),
		Property: NewPropertyRepository(q, log),
		Booking:  NewBookingRepository(q, log),
		Payment:  NewPaymentRepository(q, log),
		Review:   NewReviewRepository(q, log),
	}
}

// WithinTx runs fn with every repository bound to one serializable
// transaction. Calls nested inside fn reuse that transaction. A Repository
// assembled by hand, without a database, runs fn directly.
func (r *Repository) WithinTx(ctx context.Context, fn func(*Repository) error) error {
	if r.runTx == nil {
		return fn(r)
	}
	err := r.runTx(ctx, fn)
	if database.PgErrorCode(err) == database.CodeSerializationFailure {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return err
}

// whereClause accumulates AND-ed conditions with positional arguments.
// Each condition uses "?" for its single argument.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereClause) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for an argument appended after the filter.
func (w *whereClause) next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func escapeLike(s string) string {
	return "%" + strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s) + "%"
}

// IsOverlap reports whether err means a booking lost against a concurrent
// one. Serialization failures may surface on commit, outside any repository
// call, so the pg code is checked as well.
func IsOverlap(err error) bool {
	if errors.Is(err, ErrOverlap) || errors.Is(err, ErrSerialization) {
		return true
	}
	switch database.PgErrorCode(err) {
	case database.CodeExclusionViolation, database.CodeSerializationFailure:
		return true
	}
	return false
}
