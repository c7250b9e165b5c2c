package hostrequests

import (
	"time"

	"bookit/internal/seats"
)

// HostRequestResponse is the API representation of a host request.
type HostRequestResponse struct {
	ID               string             `json:"id"`
	OwnerEmail       string             `json:"owner_email"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Address          string             `json:"address"`
	Capacity         int                `json:"capacity"`
	PricePerSeatHour float64            `json:"price_per_seat_hour"`
	Images           []string           `json:"images"`
	Availability     []AvailabilitySlot `json:"availability"`
	Seats            seats.SeatMap      `json:"seats"`
	Status           RequestStatus      `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
