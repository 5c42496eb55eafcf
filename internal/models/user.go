package models

import (
	"time"
)

type Role string

const (
	RoleParticipant Role = "participant"
	RoleMentor      Role = "mentor"
	RoleManager     Role = "manager"
	RoleAdmin       Role = "admin"
)

// ParseRole maps a raw claim or request value onto a known role,
// defaulting to participant for anything unrecognized.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleParticipant, RoleMentor, RoleManager, RoleAdmin:
		return Role(raw)
	default:
		return RoleParticipant
	}
}

type User struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'participant'" json:"role"`
	Level     string    `gorm:"type:varchar(50)" json:"level"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
