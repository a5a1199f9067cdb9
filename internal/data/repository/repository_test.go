package repository

import (
	"context"
	"fmt"
	"testing"

	"rental-marketplace/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereClause(t *testing.T) {
	var w whereClause
	assert.Equal(t, "", w.String())

	w.addRaw("p.is_approved = TRUE")
	w.add("p.type = ?", "house")
	w.add("(p.title ILIKE ? OR p.location ILIKE ?)", "%beach%")
	limit := w.next(10)

	assert.Equal(t, "WHERE p.is_approved = TRUE AND p.type = $1 AND (p.title ILIKE $2 OR p.location ILIKE $2)", w.String())
	assert.Equal(t, "$3", limit)
	assert.Equal(t, []any{"house", "%beach%", 10}, w.args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, escapeLike("50% off_now"))
}

func TestWithinTx_WithoutDatabaseRunsDirectly(t *testing.T) {
	repo := &Repository{}
	called := false

	err := repo.WithinTx(context.Background(), func(tx *Repository) error {
		called = true
		assert.Same(t, repo, tx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithinTx_SerializationFailure(t *testing.T) {
	repo := &Repository{runTx: func(ctx context.Context, fn func(*Repository) error) error {
		return fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: database.CodeSerializationFailure})
	}}

	err := repo.WithinTx(context.Background(), func(*Repository) error { return nil })
	assert.ErrorIs(t, err, ErrSerialization)
	assert.True(t, IsOverlap(err))

	repo.runTx = func(ctx context.Context, fn func(*Repository) error) error {
		return &pgconn.PgError{Code: database.CodeUniqueViolation}
	}
	err = repo.WithinTx(context.Background(), func(*Repository) error { return nil })
	assert.NotErrorIs(t, err, ErrSerialization)
}
