package users

import (
	"time"

	"github.com/google/uuid"
)

// Role is the stored user role. Owners submit and manage host requests,
// users book seats on approved venues, admins moderate host requests.
type Role string

const (
	RoleUser  Role = "USER"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'USER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleUser), string(RoleOwner), string(RoleAdmin):
		return true
	default:
		return false
	}
}
