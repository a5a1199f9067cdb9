package usecase

import (
	"context"
	"testing"
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/dto/response"
	"rental-marketplace/pkg/broker"
	"rental-marketplace/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdminFixture() (*store, AdminService, *recordingPublisher) {
	st := newStore()
	pub := &recordingPublisher{}
	return st, NewAdminService(st.repository(), cache.Nop{}, pub, time.Minute, zap.NewNop()), pub
}

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	st, svc, _ := newAdminFixture()

	admin := st.addUser(entity.RoleAdmin)
	owner := st.addUser(entity.RoleOwner)
	customer := st.addUser(entity.RoleCustomer)
	customer.IsActive = false
	property := st.addProperty(owner, 100, 4)
	pending := st.addProperty(owner, 100, 4)
	pending.IsApproved = false
	st.addBooking(property, customer, "2030-01-01", "2030-01-03", entity.BookingStatusCompleted)
	st.addBooking(property, customer, "2030-02-01", "2030-02-03", entity.BookingStatusPending)

	stats, err := svc.Stats(ctx, principalOf(admin))
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.ActiveUsers)
	assert.Equal(t, int64(2), stats.TotalProperties)
	assert.Equal(t, int64(1), stats.PendingProperties)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.CompletedBookings)

	_, err = svc.Stats(ctx, principalOf(owner))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAdminListUsers(t *testing.T) {
	ctx := context.Background()
	st, svc, _ := newAdminFixture()

	admin := st.addUser(entity.RoleAdmin)
	st.addUser(entity.RoleOwner)
	st.addUser(entity.RoleCustomer)
	st.addUser(entity.RoleCustomer)

	resp, err := svc.ListUsers(ctx, principalOf(admin), &request.UserListRequest{Role: "customer"})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	assert.Equal(t, 10, resp.Pagination.Limit)

	_, err = svc.ListUsers(ctx, principalOf(admin), &request.UserListRequest{Role: "superuser"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToggleUserStatus(t *testing.T) {
	ctx := context.Background()
	st, svc, _ := newAdminFixture()

	admin := st.addUser(entity.RoleAdmin)
	customer := st.addUser(entity.RoleCustomer)

	resp, err := svc.ToggleUserStatus(ctx, principalOf(admin), customer.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.False(t, st.users[customer.ID].IsActive)

	resp, err = svc.ToggleUserStatus(ctx, principalOf(admin), customer.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	_, err = svc.ToggleUserStatus(ctx, principalOf(admin), admin.ID)
	assert.ErrorIs(t, err, ErrSelfStatusChange)

	_, err = svc.ToggleUserStatus(ctx, principalOf(admin), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPropertyModeration(t *testing.T) {
	ctx := context.Background()
	st, svc, pub := newAdminFixture()

	admin := st.addUser(entity.RoleAdmin)
	owner := st.addUser(entity.RoleOwner)
	first := st.addProperty(owner, 100, 4)
	first.IsApproved = false
	second := st.addProperty(owner, 100, 4)
	second.IsApproved = false
	second.CreatedAt = first.CreatedAt.Add(time.Hour)

	pending, err := svc.ListPendingProperties(ctx, principalOf(admin), &request.PaginatedRequest{})
	require.NoError(t, err)
	require.Len(t, pending.Data, 2)
	assert.Equal(t, first.ID.String(), pending.Data[0].ID, "oldest first")
	require.NotNil(t, pending.Data[0].Owner)
	assert.Equal(t, owner.Name, pending.Data[0].Owner.Name)

	approved, err := svc.ApproveProperty(ctx, principalOf(admin), first.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	assert.True(t, st.properties[first.ID].IsApproved)

	require.NoError(t, svc.RejectProperty(ctx, principalOf(admin), second.ID))
	assert.NotContains(t, st.properties, second.ID)

	assert.ErrorIs(t, svc.RejectProperty(ctx, principalOf(admin), second.ID), ErrPropertyNotFound)
	assert.Equal(t, []string{broker.PropertyApproved, broker.PropertyRejected}, pub.published())
}

func listedIDs(items []response.PropertyResponse) []string {
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func TestModerationUpdatesListings(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	shared := newMemoryCache()
	admin := NewAdminService(st.repository(), shared, &recordingPublisher{}, time.Minute, zap.NewNop())
	properties := NewPropertyService(st.repository(), shared, &recordingPublisher{}, time.Minute, zap.NewNop())

	moderator := st.addUser(entity.RoleAdmin)
	owner := st.addUser(entity.RoleOwner)
	listed := st.addProperty(owner, 90, 2)
	candidate := st.addProperty(owner, 120, 4)
	candidate.IsApproved = false

	public, err := properties.ListPublic(ctx, &request.PropertyListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{listed.ID.String()}, listedIDs(public.Data))

	stats, err := admin.Stats(ctx, principalOf(moderator))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingProperties)

	_, err = admin.ApproveProperty(ctx, principalOf(moderator), candidate.ID)
	require.NoError(t, err)

	public, err = properties.ListPublic(ctx, &request.PropertyListRequest{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{listed.ID.String(), candidate.ID.String()}, listedIDs(public.Data))
	assert.Equal(t, int64(2), public.Pagination.Total)

	stats, err = admin.Stats(ctx, principalOf(moderator))
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.PendingProperties)

	require.NoError(t, admin.RejectProperty(ctx, principalOf(moderator), candidate.ID))

	public, err = properties.ListPublic(ctx, &request.PropertyListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{listed.ID.String()}, listedIDs(public.Data))

	owned, err := properties.ListOwned(ctx, principalOf(owner))
	require.NoError(t, err)
	assert.Equal(t, []string{listed.ID.String()}, listedIDs(owned))

	_, err = properties.GetProperty(ctx, candidate.ID, nil)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}
