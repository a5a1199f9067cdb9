package usecase

import (
	"math"
	"time"

	"rental-marketplace/internal/data/entity"
)

const (
	DateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

// DateRange is a stay of calendar dates in UTC. End is the checkout day and
// is not occupied, so a stay ending on a day does not conflict with one
// starting on it.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseStayDates parses YYYY-MM-DD dates and requires end after start.
func ParseStayDates(start, end string) (DateRange, error) {
	fields := map[string]string{}

	s, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		fields["start_date"] = "Must be a date in 2006-01-02 format"
	}
	e, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		fields["end_date"] = "Must be a date in 2006-01-02 format"
	}
	if len(fields) > 0 {
		return DateRange{}, invalidFields(fields)
	}

	stay := DateRange{Start: s, End: e}
	if CountNights(stay.Start, stay.End) < 1 {
		return DateRange{}, ErrInvalidDateRange
	}
	return stay, nil
}

// Overlaps reports whether the half-open ranges [Start, End) intersect.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r DateRange) Nights() int {
	return CountNights(r.Start, r.End)
}

// CountNights rounds a partial day up to a full night.
func CountNights(start, end time.Time) int {
	return int(math.Ceil(float64(end.Sub(start)) / float64(day)))
}

// Quote is the price of a stay at a property's current nightly rate.
type Quote struct {
	Nights        int
	Guests        int
	PricePerNight float64
	Total         float64
}

// QuoteStay checks that the property can host the stay and prices it.
// It does not look at other bookings.
func QuoteStay(property *entity.Property, stay DateRange, guests int) (*Quote, error) {
	if !property.IsBookable() {
		return nil, ErrPropertyNotAvailable
	}
	if guests < 1 || guests > property.MaxGuests {
		return nil, ErrGuestsOutOfRange
	}

	nights := stay.Nights()
	if nights < 1 {
		return nil, ErrInvalidDateRange
	}

	return &Quote{
		Nights:        nights,
		Guests:        guests,
		PricePerNight: property.Price,
		Total:         roundMoney(float64(nights) * property.Price),
	}, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
