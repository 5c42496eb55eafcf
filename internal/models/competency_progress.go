package models

import (
	"time"

	"gorm.io/datatypes"
)

// CompetencyProgress is a derived aggregate, one row per (user, area,
// sub-competency). It is a materialized view over tasks and completions and
// is fully overwritten on recomputation, except for evidence_items which is
// owned by the portfolio flow and preserved across upserts.
type CompetencyProgress struct {
	ID                   string         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID               string         `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_leaf" json:"user_id"`
	CompetencyArea       string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_progress_leaf" json:"competency_area"`
	SubCompetency        string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_progress_leaf" json:"sub_competency"`
	CompletionPercentage float64        `gorm:"not null;default:0" json:"completion_percentage"`
	CompletedTasks       int            `gorm:"not null;default:0" json:"completed_tasks"`
	TotalTasks           int            `gorm:"not null;default:0" json:"total_tasks"`
	EvidenceItems        datatypes.JSON `gorm:"type:json" json:"evidence_items"`
	LastUpdated          time.Time      `json:"last_updated"`
}
