package hostrequests

// CreateHostRequestRequest is the owner's venue submission payload.
type CreateHostRequestRequest struct {
	Name             string             `json:"name" binding:"required,min=3,max=255"`
	Description      string             `json:"description" binding:"max=2000"`
	Address          string             `json:"address" binding:"required,min=3,max=500"`
	Capacity         int                `json:"capacity" binding:"required,min=1,max=10000"`
	PricePerSeatHour float64            `json:"price_per_seat_hour" binding:"required,min=0"`
	Images           []string           `json:"images" binding:"omitempty,dive,url"`
	Availability     []AvailabilitySlot `json:"availability"`
	SeatLabels       []string           `json:"seat_labels"`
}

// UpdateHostRequestRequest carries owner edits. Seat entries replace label
// and price only; bookings on existing seats are preserved.
type UpdateHostRequestRequest struct {
	Name             *string            `json:"name" binding:"omitempty,min=3,max=255"`
	Description      *string            `json:"description" binding:"omitempty,max=2000"`
	Address          *string            `json:"address" binding:"omitempty,min=3,max=500"`
	Capacity         *int               `json:"capacity" binding:"omitempty,min=1,max=10000"`
	PricePerSeatHour *float64           `json:"price_per_seat_hour" binding:"omitempty,min=0"`
	Images           []string           `json:"images" binding:"omitempty,dive,url"`
	Availability     []AvailabilitySlot `json:"availability"`
	Seats            []SeatEdit         `json:"seats" binding:"omitempty,dive"`
}

// SeatEdit updates a single seat's label or price by its 1-based id.
type SeatEdit struct {
	ID    int      `json:"id" binding:"required,min=1"`
	Label *string  `json:"label" binding:"omitempty,max=100"`
	Price *float64 `json:"price" binding:"omitempty,min=0"`
}

// OwnerBookingRequest adds one owner booking to a seat.
type OwnerBookingRequest struct {
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	Hours     float64 `json:"hours" binding:"required,gt=0"`
}

// UpdateStatusRequest is the admin moderation payload.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// ListQuery filters the admin moderation listing.
type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}
