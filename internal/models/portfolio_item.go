package models

import (
	"time"

	"gorm.io/datatypes"
)

type PortfolioVisibility string

const (
	VisibilityPrivate  PortfolioVisibility = "private"
	VisibilityManagers PortfolioVisibility = "managers"
	VisibilityMentors  PortfolioVisibility = "mentors"
	VisibilityPublic   PortfolioVisibility = "public"
)

// ValidVisibility reports whether v is a known visibility level.
func ValidVisibility(v PortfolioVisibility) bool {
	switch v {
	case VisibilityPrivate, VisibilityManagers, VisibilityMentors, VisibilityPublic:
		return true
	}
	return false
}

type PortfolioStatus string

const (
	PortfolioStatusActive   PortfolioStatus = "active"
	PortfolioStatusArchived PortfolioStatus = "archived"
	PortfolioStatusDeleted  PortfolioStatus = "deleted"
)

// PortfolioItem is a participant-uploaded artifact, optionally tagged to
// one or more competency areas. Deletion is a status transition; rows are
// never hard-deleted even after the underlying file is removed.
type PortfolioItem struct {
	ID               string              `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID           string              `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title            string              `gorm:"type:varchar(255);not null" json:"title"`
	Description      string              `gorm:"type:text" json:"description"`
	CompetencyAreas  datatypes.JSON      `gorm:"type:json" json:"competency_areas"`
	FilePath         string              `gorm:"type:text;not null" json:"file_path"`
	OriginalFilename string              `gorm:"type:varchar(255);not null" json:"original_filename"`
	SecureFilename   string              `gorm:"type:varchar(255);not null" json:"secure_filename"`
	FileSize         int64               `gorm:"not null;default:0" json:"file_size"`
	MimeType         string              `gorm:"type:varchar(127)" json:"mime_type"`
	Visibility       PortfolioVisibility `gorm:"type:varchar(20);not null;default:'private'" json:"visibility"`
	Tags             datatypes.JSON      `gorm:"type:json" json:"tags"`
	Status           PortfolioStatus     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	UploadDate       time.Time           `json:"upload_date"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
