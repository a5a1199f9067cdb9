package usecase

import (
	"context"
	"testing"
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/internal/dto/request"
	"rental-marketplace/pkg/broker"
	"rental-marketplace/pkg/cache"
	"rental-marketplace/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPropertyFixture() (*store, PropertyService) {
	st := newStore()
	return st, NewPropertyService(st.repository(), cache.Nop{}, broker.Nop{}, time.Minute, zap.NewNop())
}

func validPropertyRequest() *request.CreatePropertyRequest {
	price := 85.5
	return &request.CreatePropertyRequest{
		Title:       "Sunny apartment",
		Description: "Two rooms close to the beach and the market.",
		Price:       &price,
		Location:    "Kribi",
		Type:        "apartment",
	}
}

func TestCreateProperty(t *testing.T) {
	ctx := context.Background()
	st, svc := newPropertyFixture()
	owner := st.addUser(entity.RoleOwner)
	customer := st.addUser(entity.RoleCustomer)

	resp, err := svc.CreateProperty(ctx, principalOf(owner), validPropertyRequest())
	require.NoError(t, err)

	assert.Equal(t, owner.ID.String(), resp.OwnerID)
	assert.False(t, resp.IsApproved)
	assert.True(t, resp.IsActive)
	assert.Equal(t, 1, resp.Bedrooms)
	assert.Equal(t, 1, resp.Bathrooms)
	assert.Equal(t, 2, resp.MaxGuests)
	assert.Equal(t, 85.5, resp.Price)

	_, err = svc.CreateProperty(ctx, principalOf(customer), validPropertyRequest())
	assert.ErrorIs(t, err, ErrAccessDenied)

	bad := validPropertyRequest()
	bad.Price = nil
	bad.Type = "castle"
	_, err = svc.CreateProperty(ctx, principalOf(owner), bad)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "type")
}

func TestGetPropertyVisibility(t *testing.T) {
	ctx := context.Background()
	st, svc := newPropertyFixture()
	owner := st.addUser(entity.RoleOwner)
	otherOwner := st.addUser(entity.RoleOwner)
	customer := st.addUser(entity.RoleCustomer)
	admin := st.addUser(entity.RoleAdmin)

	hidden := st.addProperty(owner, 100, 2)
	hidden.IsApproved = false

	principal := func(u *entity.User) *utils.Principal {
		p := principalOf(u)
		return &p
	}

	_, err := svc.GetProperty(ctx, hidden.ID, nil)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	_, err = svc.GetProperty(ctx, hidden.ID, principal(customer))
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	_, err = svc.GetProperty(ctx, hidden.ID, principal(otherOwner))
	assert.ErrorIs(t, err, ErrPropertyNotFound)

	resp, err := svc.GetProperty(ctx, hidden.ID, principal(owner))
	require.NoError(t, err)
	require.NotNil(t, resp.Owner)
	assert.Equal(t, owner.Name, resp.Owner.Name)

	_, err = svc.GetProperty(ctx, hidden.ID, principal(admin))
	assert.NoError(t, err)

	public := st.addProperty(owner, 100, 2)
	_, err = svc.GetProperty(ctx, public.ID, nil)
	assert.NoError(t, err)
}

func TestListPublicProperties(t *testing.T) {
	ctx := context.Background()
	st, svc := newPropertyFixture()
	owner := st.addUser(entity.RoleOwner)

	st.addProperty(owner, 50, 2)
	st.addProperty(owner, 150, 2)
	inactive := st.addProperty(owner, 60, 2)
	inactive.IsActive = false

	resp, err := svc.ListPublic(ctx, &request.PropertyListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 12, resp.Pagination.Limit)

	max := 100.0
	resp, err = svc.ListPublic(ctx, &request.PropertyListRequest{MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 50.0, resp.Data[0].Price)
}

func TestUpdateAndDeleteProperty(t *testing.T) {
	ctx := context.Background()
	st, svc := newPropertyFixture()
	owner := st.addUser(entity.RoleOwner)
	intruder := st.addUser(entity.RoleOwner)
	admin := st.addUser(entity.RoleAdmin)
	property := st.addProperty(owner, 100, 2)
	property.IsApproved = false

	title := "Renovated beach house"
	resp, err := svc.UpdateProperty(ctx, principalOf(owner), property.ID, &request.UpdatePropertyRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, resp.Title)
	assert.False(t, st.properties[property.ID].IsApproved)

	_, err = svc.UpdateProperty(ctx, principalOf(intruder), property.ID, &request.UpdatePropertyRequest{Title: &title})
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.ErrorIs(t, svc.DeleteProperty(ctx, principalOf(intruder), property.ID), ErrAccessDenied)
	require.NoError(t, svc.DeleteProperty(ctx, principalOf(admin), property.ID))
	assert.ErrorIs(t, svc.DeleteProperty(ctx, principalOf(owner), property.ID), ErrPropertyNotFound)

	_, err = svc.UpdateProperty(ctx, principalOf(owner), uuid.New(), &request.UpdatePropertyRequest{Title: &title})
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}
