package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rental-marketplace/internal/data/entity"
	"rental-marketplace/internal/data/repository"
	"rental-marketplace/pkg/broker"

	"github.com/google/uuid"
)

// store is an in-memory backing for the fake repositories.
type store struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*entity.User
	properties map[uuid.UUID]*entity.Property
	bookings   map[uuid.UUID]*entity.Booking
	payments   map[uuid.UUID]*entity.Payment
	reviews    map[uuid.UUID]*entity.Review
}

func newStore() *store {
	return &store{
		users:      map[uuid.UUID]*entity.User{},
		properties: map[uuid.UUID]*entity.Property{},
		bookings:   map[uuid.UUID]*entity.Booking{},
		payments:   map[uuid.UUID]*entity.Payment{},
		reviews:    map[uuid.UUID]*entity.Review{},
	}
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		User:     &fakeUserRepo{s},
		Property: &fakePropertyRepo{s},
		Booking:  &fakeBookingRepo{s},
		Payment:  &fakePaymentRepo{s},
		Review:   &fakeReviewRepo{s},
	}
}

func (s *store) addUser(role entity.UserRole) *entity.User {
	u := &entity.User{
		Base:     entity.NewBase(time.Now()),
		Name:     string(role) + " user",
		Email:    uuid.NewString() + "@example.com",
		Role:     role,
		IsActive: true,
	}
	s.users[u.ID] = u
	return u
}

func (s *store) addProperty(owner *entity.User, price float64, maxGuests int) *entity.Property {
	p := &entity.Property{
		Base:       entity.NewBase(time.Now()),
		OwnerID:    owner.ID,
		Title:      "Beach house",
		Location:   "Douala",
		Type:       entity.PropertyTypeHouse,
		Price:      price,
		Bedrooms:   2,
		Bathrooms:  1,
		MaxGuests:  maxGuests,
		IsApproved: true,
		IsActive:   true,
		Images:     []string{},
		Amenities:  []string{},
	}
	s.properties[p.ID] = p
	return p
}

func (s *store) addBooking(p *entity.Property, customer *entity.User, start, end string, status entity.BookingStatus) *entity.Booking {
	b := &entity.Booking{
		Base:        entity.NewBase(time.Now()),
		PropertyID:  p.ID,
		CustomerID:  customer.ID,
		StartDate:   date(start),
		EndDate:     date(end),
		Guests:      1,
		TotalAmount: float64(CountNights(date(start), date(end))) * p.Price,
		Status:      status,
	}
	s.bookings[b.ID] = b
	return b
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.s.users[user.ID] = clone(user)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.users[id]), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uuid.UUID]*entity.User{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = clone(u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) filtered(filter repository.UserFilter) []*entity.User {
	var out []*entity.User
	for _, u := range r.s.users {
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filtered(filter), limit, offset), nil
}

func (r *fakeUserRepo) CountFiltered(_ context.Context, filter repository.UserFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.IsActive = active
	}
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *fakeUserRepo) CountActive(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

type fakePropertyRepo struct{ s *store }

func (r *fakePropertyRepo) Create(_ context.Context, p *entity.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.properties[p.ID] = clone(p)
	return nil
}

func (r *fakePropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.properties[id]), nil
}

func (r *fakePropertyRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePropertyRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uuid.UUID]*entity.Property{}
	for _, id := range ids {
		if p, ok := r.s.properties[id]; ok {
			out[id] = clone(p)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) public(filter repository.PropertyFilter) []*entity.Property {
	var out []*entity.Property
	for _, p := range r.s.properties {
		if !p.IsBookable() {
			continue
		}
		if filter.Type != "" && string(p.Type) != filter.Type {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakePropertyRepo) FindPublic(_ context.Context, filter repository.PropertyFilter, limit, offset int) ([]*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.public(filter), limit, offset), nil
}

func (r *fakePropertyRepo) CountPublic(_ context.Context, filter repository.PropertyFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.public(filter))), nil
}

func (r *fakePropertyRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Property
	for _, p := range r.s.properties {
		if p.OwnerID == ownerID {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) pending() []*entity.Property {
	var out []*entity.Property
	for _, p := range r.s.properties {
		if !p.IsApproved {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *fakePropertyRepo) FindPending(_ context.Context, limit, offset int) ([]*entity.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.pending(), limit, offset), nil
}

func (r *fakePropertyRepo) CountPending(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.pending())), nil
}

func (r *fakePropertyRepo) Update(_ context.Context, p *entity.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	approved := r.s.properties[p.ID].IsApproved
	stored := clone(p)
	stored.IsApproved = approved
	r.s.properties[p.ID] = stored
	return nil
}

func (r *fakePropertyRepo) SetApproved(_ context.Context, id uuid.UUID, approved bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.properties[id]; ok {
		p.IsApproved = approved
	}
	return nil
}

func (r *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.properties, id)
	return nil
}

func (r *fakePropertyRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.properties)), nil
}

func (r *fakePropertyRepo) RatingsFor(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]entity.PropertyRating, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uuid.UUID]entity.PropertyRating{}
	for _, id := range ids {
		avg, count := r.s.rating(id)
		out[id] = entity.PropertyRating{PropertyID: id, AvgRating: avg, ReviewCount: count}
	}
	return out, nil
}

func (s *store) rating(propertyID uuid.UUID) (float64, int64) {
	var sum, count int64
	for _, rv := range s.reviews {
		if rv.PropertyID == propertyID {
			sum += int64(rv.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return float64(sum) / float64(count), count
}

type fakeBookingRepo struct{ s *store }

func (r *fakeBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[b.ID] = clone(b)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.bookings[id]), nil
}

func (r *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookingRepo) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.CustomerID == customerID {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if p, ok := r.s.properties[b.PropertyID]; ok && p.OwnerID == ownerID {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindConflicting(_ context.Context, propertyID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := DateRange{Start: start, End: end}
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.PropertyID != propertyID || !b.Status.HoldsDates() {
			continue
		}
		if want.Overlaps(DateRange{Start: b.StartDate, End: b.EndDate}) {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) HasCompletedStay(_ context.Context, customerID, propertyID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.CustomerID == customerID && b.PropertyID == propertyID && b.Status == entity.BookingStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bookings[id]; ok {
		b.Status = status
	}
	return nil
}

func (r *fakeBookingRepo) CompleteEndedBy(_ context.Context, day time.Time) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for _, b := range r.s.bookings {
		if b.Status == entity.BookingStatusConfirmed && !b.EndDate.After(day) {
			b.Status = entity.BookingStatusCompleted
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (r *fakeBookingRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.bookings)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context, status entity.BookingStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookings {
		if b.Status == status {
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct{ s *store }

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payments {
		if existing.BookingID == p.BookingID {
			return repository.ErrDuplicate
		}
	}
	r.s.payments[p.ID] = clone(p)
	return nil
}

func (r *fakePaymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.BookingID == bookingID {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByBookingIDs(_ context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[uuid.UUID]*entity.Payment{}
	for _, p := range r.s.payments {
		for _, id := range bookingIDs {
			if p.BookingID == id {
				out[id] = clone(p)
			}
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.TransactionID == transactionID {
			return clone(p), nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) FindByTransactionIDForUpdate(ctx context.Context, transactionID string) (*entity.Payment, error) {
	return r.FindByTransactionID(ctx, transactionID)
}

func (r *fakePaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments[p.ID] = clone(p)
	return nil
}

type fakeReviewRepo struct{ s *store }

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rv := range r.s.reviews {
		if rv.UserID == review.UserID && rv.PropertyID == review.PropertyID {
			return repository.ErrDuplicate
		}
	}
	r.s.reviews[review.ID] = clone(review)
	return nil
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.reviews[id]), nil
}

func (r *fakeReviewRepo) byProperty(propertyID uuid.UUID) []*entity.Review {
	var out []*entity.Review
	for _, rv := range r.s.reviews {
		if rv.PropertyID == propertyID {
			out = append(out, clone(rv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeReviewRepo) FindByProperty(_ context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.byProperty(propertyID), limit, offset), nil
}

func (r *fakeReviewRepo) CountByProperty(_ context.Context, propertyID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.byProperty(propertyID))), nil
}

func (r *fakeReviewRepo) FindByUserAndProperty(_ context.Context, userID, propertyID uuid.UUID) (*entity.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rv := range r.s.reviews {
		if rv.UserID == userID && rv.PropertyID == propertyID {
			return clone(rv), nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reviews[review.ID] = clone(review)
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reviews, id)
	return nil
}

func (r *fakeReviewRepo) RatingSummary(_ context.Context, propertyID uuid.UUID) (float64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	avg, count := r.s.rating(propertyID)
	return avg, count, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// recordingPublisher captures published routing keys.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

var _ broker.Publisher = (*recordingPublisher)(nil)

// memoryCache is a working cache.Cache, so stale reads after a missed
// invalidation show up in tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}
