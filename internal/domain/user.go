package domain

import (
	"strings"
	"time"
)

// Role is fixed at signup. There is no role-change operation.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleRecipient Role = "recipient"
	RoleVolunteer Role = "volunteer"
)

func ParseRole(v string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(v))) {
	case RoleDonor:
		return RoleDonor, true
	case RoleRecipient:
		return RoleRecipient, true
	case RoleVolunteer:
		return RoleVolunteer, true
	default:
		return "", false
	}
}

func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleRecipient || r == RoleVolunteer
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Role         Role      `gorm:"size:16;not null;index:idx_users_role" json:"role"`
	PasswordHash string    `gorm:"size:512;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
