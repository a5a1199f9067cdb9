package request

type CreatePropertyRequest struct {
	Title       string   `json:"title" validate:"required,min=5,max=200"`
	Description string   `json:"description" validate:"required,min=20"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Location    string   `json:"location" validate:"required,max=255"`
	Address     *string  `json:"address,omitempty"`
	Type        string   `json:"type" validate:"required,oneof=house apartment room hotel motel event_center"`
	Images      []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Amenities   []string `json:"amenities,omitempty" validate:"omitempty,dive,required,max=100"`
	Bedrooms    *int     `json:"bedrooms,omitempty" validate:"omitempty,min=1"`
	Bathrooms   *int     `json:"bathrooms,omitempty" validate:"omitempty,min=1"`
	MaxGuests   *int     `json:"max_guests,omitempty" validate:"omitempty,min=1"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// UpdatePropertyRequest is a partial update: nil fields are left unchanged.
type UpdatePropertyRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=5,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=20"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Location    *string   `json:"location,omitempty" validate:"omitempty,min=1,max=255"`
	Address     *string   `json:"address,omitempty"`
	Type        *string   `json:"type,omitempty" validate:"omitempty,oneof=house apartment room hotel motel event_center"`
	Images      *[]string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Amenities   *[]string `json:"amenities,omitempty" validate:"omitempty,dive,required,max=100"`
	Bedrooms    *int      `json:"bedrooms,omitempty" validate:"omitempty,min=1"`
	Bathrooms   *int      `json:"bathrooms,omitempty" validate:"omitempty,min=1"`
	MaxGuests   *int      `json:"max_guests,omitempty" validate:"omitempty,min=1"`
	IsActive    *bool     `json:"is_active,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64  `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// PropertyListRequest carries the public listing query string.
type PropertyListRequest struct {
	PaginatedRequest
	Type      string   `json:"type" validate:"omitempty,oneof=house apartment room hotel motel event_center"`
	Location  string   `json:"location" validate:"max=255"`
	MinPrice  *float64 `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice  *float64 `json:"max_price" validate:"omitempty,gte=0"`
	Bedrooms  *int     `json:"bedrooms" validate:"omitempty,min=0"`
	Bathrooms *int     `json:"bathrooms" validate:"omitempty,min=0"`
	Search    string   `json:"search" validate:"max=200"`
}
