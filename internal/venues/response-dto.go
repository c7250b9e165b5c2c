package venues

import (
	"time"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"
)

// VenueResponse is the full public venue document, seats included.
type VenueResponse struct {
	ID               string                          `json:"id"`
	HostRequestID    string                          `json:"host_request_id"`
	Name             string                          `json:"name"`
	Description      string                          `json:"description"`
	Address          string                          `json:"address"`
	Capacity         int                             `json:"capacity"`
	PricePerSeatHour float64                         `json:"price_per_seat_hour"`
	Images           []string                        `json:"images"`
	Availability     []hostrequests.AvailabilitySlot `json:"availability"`
	Seats            seats.SeatMap                   `json:"seats"`
	CreatedAt        time.Time                       `json:"created_at"`
	UpdatedAt        time.Time                       `json:"updated_at"`
}

// VenueListItem is the browsing card shape.
type VenueListItem struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Capacity         int      `json:"capacity"`
	PricePerSeatHour float64  `json:"price_per_seat_hour"`
	Images           []string `json:"images"`
}

// PaginatedVenues wraps a listing page.
type PaginatedVenues struct {
	Venues     []VenueListItem `json:"venues"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// BookSeatsResponse confirms an all-or-nothing booking.
type BookSeatsResponse struct {
	VenueID  string          `json:"venue_id"`
	SeatIDs  []int           `json:"seat_ids"`
	Bookings []seats.Booking `json:"bookings"`
}
