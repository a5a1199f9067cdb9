package request

type CreateBookingRequest struct {
	PropertyID string  `json:"property_id" validate:"required,uuid"`
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Guests     *int    `json:"guests,omitempty" validate:"omitempty,min=1"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// AvailabilityRequest carries the availability query string.
type AvailabilityRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Guests    int    `json:"guests" validate:"min=1"`
}
