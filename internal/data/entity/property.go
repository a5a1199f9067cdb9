package entity

import "github.com/google/uuid"

type PropertyType string

const (
	PropertyTypeHouse       PropertyType = "house"
	PropertyTypeApartment   PropertyType = "apartment"
	PropertyTypeRoom        PropertyType = "room"
	PropertyTypeHotel       PropertyType = "hotel"
	PropertyTypeMotel       PropertyType = "motel"
	PropertyTypeEventCenter PropertyType = "event_center"
)

type Property struct {
	Base
	OwnerID     uuid.UUID    `db:"owner_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Price       float64      `db:"price"` // per night
	Location    string       `db:"location"`
	Address     *string      `db:"address"`
	Type        PropertyType `db:"type"`
	Images      []string     `db:"images"`
	Amenities   []string     `db:"amenities"`
	Bedrooms    int          `db:"bedrooms"`
	Bathrooms   int          `db:"bathrooms"`
	MaxGuests   int          `db:"max_guests"`
	IsApproved  bool         `db:"is_approved"`
	IsActive    bool         `db:"is_active"`
	Latitude    *float64     `db:"latitude"`
	Longitude   *float64     `db:"longitude"`
}

// IsBookable reports whether the property is visible and open for bookings.
func (p *Property) IsBookable() bool {
	return p.IsApproved && p.IsActive
}

// PropertyRating is the review aggregate of one property.
type PropertyRating struct {
	PropertyID  uuid.UUID `db:"property_id"`
	AvgRating   float64   `db:"avg_rating"`
	ReviewCount int64     `db:"review_count"`
}
