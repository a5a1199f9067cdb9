package usecase

import (
	"context"
	"testing"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/internal/dto/request"
	"rental-marketplace/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewReviewService(st.repository(), cache.Nop{}, zap.NewNop())

	owner := st.addUser(entity.RoleOwner)
	guest := st.addUser(entity.RoleCustomer)
	newcomer := st.addUser(entity.RoleCustomer)
	property := st.addProperty(owner, 100, 4)
	st.addBooking(property, guest, "2030-01-01", "2030-01-03", entity.BookingStatusCompleted)
	st.addBooking(property, newcomer, "2030-02-01", "2030-02-03", entity.BookingStatusConfirmed)

	req := &request.CreateReviewRequest{PropertyID: property.ID.String(), Rating: 5}

	resp, err := svc.CreateReview(ctx, principalOf(guest), req)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	assert.Equal(t, guest.Name, resp.UserName)

	_, err = svc.CreateReview(ctx, principalOf(guest), req)
	assert.ErrorIs(t, err, ErrDuplicateReview)

	_, err = svc.CreateReview(ctx, principalOf(newcomer), req)
	assert.ErrorIs(t, err, ErrReviewNotEligible)

	_, err = svc.CreateReview(ctx, principalOf(guest), &request.CreateReviewRequest{PropertyID: uuid.NewString(), Rating: 4})
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	_, err = svc.CreateReview(ctx, principalOf(guest), &request.CreateReviewRequest{PropertyID: property.ID.String(), Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateReview(ctx, principalOf(owner), req)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetPropertyReviews(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewReviewService(st.repository(), cache.Nop{}, zap.NewNop())

	owner := st.addUser(entity.RoleOwner)
	property := st.addProperty(owner, 100, 4)
	for _, rating := range []int{5, 4, 4} {
		guest := st.addUser(entity.RoleCustomer)
		st.addBooking(property, guest, "2030-01-01", "2030-01-03", entity.BookingStatusCompleted)
		_, err := svc.CreateReview(ctx, principalOf(guest), &request.CreateReviewRequest{PropertyID: property.ID.String(), Rating: rating})
		require.NoError(t, err)
	}

	resp, err := svc.GetPropertyReviews(ctx, property.ID, &request.PaginatedRequest{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, resp.Reviews, 2)
	assert.Equal(t, 4.3, resp.AvgRating)
	assert.Equal(t, int64(3), resp.ReviewCount)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.NotEmpty(t, resp.Reviews[0].UserName)
}

func TestUpdateAndDeleteReview(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	svc := NewReviewService(st.repository(), cache.Nop{}, zap.NewNop())

	owner := st.addUser(entity.RoleOwner)
	author := st.addUser(entity.RoleCustomer)
	other := st.addUser(entity.RoleCustomer)
	admin := st.addUser(entity.RoleAdmin)
	property := st.addProperty(owner, 100, 4)
	st.addBooking(property, author, "2030-01-01", "2030-01-03", entity.BookingStatusCompleted)

	created, err := svc.CreateReview(ctx, principalOf(author), &request.CreateReviewRequest{PropertyID: property.ID.String(), Rating: 3})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	comment := "Lovely stay"
	updated, err := svc.UpdateReview(ctx, principalOf(author), id, &request.UpdateReviewRequest{Rating: 4, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, comment, *updated.Comment)

	_, err = svc.UpdateReview(ctx, principalOf(other), id, &request.UpdateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateReview(ctx, principalOf(admin), id, &request.UpdateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, ErrAccessDenied, "admins moderate by deleting, not editing")

	assert.ErrorIs(t, svc.DeleteReview(ctx, principalOf(other), id), ErrAccessDenied)
	require.NoError(t, svc.DeleteReview(ctx, principalOf(admin), id))
	assert.ErrorIs(t, svc.DeleteReview(ctx, principalOf(author), id), ErrReviewNotFound)
}
