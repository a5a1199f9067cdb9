package usecase

import (
	"testing"
	"time"

	"rental-marketplace/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(start, end string) DateRange {
	return DateRange{Start: date(start), End: date(end)}
}

func TestParseStayDates(t *testing.T) {
	r, err := ParseStayDates("2024-01-01", "2024-01-04")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Nights())

	_, err = ParseStayDates("2024-01-04", "2024-01-04")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseStayDates("2024-01-05", "2024-01-04")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseStayDates("01/04/2024", "2024-01-04")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "start_date")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDateRange_Overlaps(t *testing.T) {
	existing := stay("2024-03-01", "2024-03-05")

	tests := []struct {
		name    string
		request DateRange
		want    bool
	}{
		{"starts inside", stay("2024-03-04", "2024-03-06"), true},
		{"ends inside", stay("2024-02-27", "2024-03-02"), true},
		{"contains existing", stay("2024-02-28", "2024-03-10"), true},
		{"contained by existing", stay("2024-03-02", "2024-03-03"), true},
		{"identical", stay("2024-03-01", "2024-03-05"), true},
		{"checkin on checkout day", stay("2024-03-05", "2024-03-08"), false},
		{"checkout on checkin day", stay("2024-02-25", "2024-03-01"), false},
		{"entirely before", stay("2024-02-01", "2024-02-05"), false},
		{"entirely after", stay("2024-04-01", "2024-04-05"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.request.Overlaps(existing))
			assert.Equal(t, tt.want, existing.Overlaps(tt.request), "overlap must be symmetric")
		})
	}
}

func TestCountNights(t *testing.T) {
	assert.Equal(t, 3, CountNights(date("2024-01-01"), date("2024-01-04")))
	assert.Equal(t, 1, CountNights(date("2024-01-01"), date("2024-01-01").Add(2*time.Hour)))
	assert.Equal(t, 0, CountNights(date("2024-01-01"), date("2024-01-01")))
	// across the February leap day
	assert.Equal(t, 2, CountNights(date("2024-02-28"), date("2024-03-01")))
}

func bookableProperty(price float64, maxGuests int) *entity.Property {
	return &entity.Property{
		Base:       entity.NewBase(time.Now()),
		Price:      price,
		MaxGuests:  maxGuests,
		IsApproved: true,
		IsActive:   true,
	}
}

func TestQuoteStay(t *testing.T) {
	q, err := QuoteStay(bookableProperty(100, 4), stay("2024-01-01", "2024-01-04"), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 300.0, q.Total)
	assert.Equal(t, 100.0, q.PricePerNight)

	q, err = QuoteStay(bookableProperty(50, 4), stay("2024-03-05", "2024-03-08"), 1)
	require.NoError(t, err)
	assert.Equal(t, 150.0, q.Total)
}

func TestQuoteStay_Guests(t *testing.T) {
	p := bookableProperty(80, 3)
	for guests := 1; guests <= 3; guests++ {
		_, err := QuoteStay(p, stay("2024-01-01", "2024-01-02"), guests)
		assert.NoError(t, err, "guests=%d", guests)
	}

	for _, guests := range []int{0, -1, 4, 10} {
		_, err := QuoteStay(p, stay("2024-01-01", "2024-01-02"), guests)
		assert.ErrorIs(t, err, ErrGuestsOutOfRange, "guests=%d", guests)
		assert.ErrorIs(t, err, ErrValidation)
		assert.EqualError(t, err, "Guests must be between 1 and the property's capacity")
	}
}

func TestQuoteStay_PropertyNotBookable(t *testing.T) {
	unapproved := bookableProperty(80, 3)
	unapproved.IsApproved = false
	_, err := QuoteStay(unapproved, stay("2024-01-01", "2024-01-02"), 1)
	assert.ErrorIs(t, err, ErrPropertyNotAvailable)

	inactive := bookableProperty(80, 3)
	inactive.IsActive = false
	_, err = QuoteStay(inactive, stay("2024-01-01", "2024-01-02"), 1)
	assert.ErrorIs(t, err, ErrPropertyNotAvailable)
}
