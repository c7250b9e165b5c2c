package venues

import (
	"time"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"

	"github.com/google/uuid"
)

// Venue is the public, bookable projection of an approved host request.
// One venue per host request; un-approval removes every linked row.
type Venue struct {
	ID               uuid.UUID                       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	HostRequestID    uuid.UUID                       `json:"host_request_id" gorm:"type:uuid;not null;uniqueIndex:idx_venues_host_request_id"`
	OwnerID          uuid.UUID                       `json:"owner_id" gorm:"type:uuid;not null;index"`
	OwnerEmail       string                          `json:"owner_email" gorm:"not null;size:255"`
	Name             string                          `json:"name" gorm:"not null;size:255;index"`
	Description      string                          `json:"description" gorm:"type:text"`
	Address          string                          `json:"address" gorm:"not null;size:500"`
	Capacity         int                             `json:"capacity" gorm:"not null;check:capacity > 0"`
	PricePerSeatHour float64                         `json:"price_per_seat_hour" gorm:"not null"`
	Images           []string                        `json:"images" gorm:"type:jsonb;serializer:json"`
	Availability     []hostrequests.AvailabilitySlot `json:"availability" gorm:"type:jsonb;serializer:json"`
	Seats            seats.SeatMap                   `json:"seats" gorm:"type:jsonb;serializer:json"`
	SeatVersion      int64                           `json:"-" gorm:"not null;default:0"`
	CreatedAt        time.Time                       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time                       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Venue) TableName() string {
	return "venues"
}

// ToResponse converts a Venue to its API representation.
func (v *Venue) ToResponse() VenueResponse {
	return VenueResponse{
		ID:               v.ID.String(),
		HostRequestID:    v.HostRequestID.String(),
		Name:             v.Name,
		Description:      v.Description,
		Address:          v.Address,
		Capacity:         v.Capacity,
		PricePerSeatHour: v.PricePerSeatHour,
		Images:           v.Images,
		Availability:     v.Availability,
		Seats:            v.Seats,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// ToListItem converts a Venue to the browsing card shape. Seat documents get
// heavy once bookings accumulate, so listings carry only the summary fields.
func (v *Venue) ToListItem() VenueListItem {
	return VenueListItem{
		ID:               v.ID.String(),
		Name:             v.Name,
		Address:          v.Address,
		Capacity:         v.Capacity,
		PricePerSeatHour: v.PricePerSeatHour,
		Images:           v.Images,
	}
}

// projectFrom refreshes the public fields from the authoritative host
// request. Seats are managed separately by the merge path.
func (v *Venue) projectFrom(hr *hostrequests.HostRequest) {
	v.HostRequestID = hr.ID
	v.OwnerID = hr.OwnerID
	v.OwnerEmail = hr.OwnerEmail
	v.Name = hr.Name
	v.Description = hr.Description
	v.Address = hr.Address
	v.Capacity = hr.Capacity
	v.PricePerSeatHour = hr.PricePerSeatHour
	v.Images = hr.Images
	v.Availability = hr.Availability
}
