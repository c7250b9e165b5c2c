package hostrequests

import (
	"time"

	"bookit/internal/seats"

	"github.com/google/uuid"
)

// RequestStatus is the moderation lifecycle of a host request. Only admins
// move a request between statuses; approval creates the public venue
// projection and un-approval removes it.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

func IsValidStatus(status string) bool {
	switch RequestStatus(status) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// AvailabilitySlot is a weekly opening window for the venue.
type AvailabilitySlot struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// HostRequest is the owner-authored venue record. It is authoritative for
// seat labels, prices and owner bookings; the linked Venue row is the public
// projection created on approval.
type HostRequest struct {
	ID               uuid.UUID          `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OwnerID          uuid.UUID          `json:"owner_id" gorm:"type:uuid;not null;index"`
	OwnerEmail       string             `json:"owner_email" gorm:"not null;size:255"`
	Name             string             `json:"name" gorm:"not null;size:255"`
	Description      string             `json:"description" gorm:"type:text"`
	Address          string             `json:"address" gorm:"not null;size:500"`
	Capacity         int                `json:"capacity" gorm:"not null;check:capacity > 0"`
	PricePerSeatHour float64            `json:"price_per_seat_hour" gorm:"not null;check:price_per_seat_hour >= 0"`
	Images           []string           `json:"images" gorm:"type:jsonb;serializer:json"`
	Availability     []AvailabilitySlot `json:"availability" gorm:"type:jsonb;serializer:json"`
	Seats            seats.SeatMap      `json:"seats" gorm:"type:jsonb;serializer:json"`
	SeatVersion      int64              `json:"-" gorm:"not null;default:0"`
	Status           RequestStatus      `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt        time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (HostRequest) TableName() string {
	return "host_requests"
}

// ToResponse converts a HostRequest to its API representation.
func (hr *HostRequest) ToResponse() HostRequestResponse {
	return HostRequestResponse{
		ID:               hr.ID.String(),
		OwnerEmail:       hr.OwnerEmail,
		Name:             hr.Name,
		Description:      hr.Description,
		Address:          hr.Address,
		Capacity:         hr.Capacity,
		PricePerSeatHour: hr.PricePerSeatHour,
		Images:           hr.Images,
		Availability:     hr.Availability,
		Seats:            hr.Seats,
		Status:           hr.Status,
		CreatedAt:        hr.CreatedAt,
		UpdatedAt:        hr.UpdatedAt,
	}
}
