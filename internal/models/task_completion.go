package models

import (
	"time"
)

// TaskCompletion is an append-only record of a participant finishing a task.
// At most one completion should exist per (user_id, task_id); this is
// enforced by a pre-insert existence check in the service layer, not a
// unique index, so two concurrent requests can race past it. Preserved as-is
// from the original API contract.
type TaskCompletion struct {
	ID                  string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID              string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	TaskID              string    `gorm:"type:varchar(36);not null;index" json:"task_id"`
	CompletedAt         time.Time `json:"completed_at"`
	EvidenceDescription *string   `gorm:"type:text" json:"evidence_description,omitempty"`
	EvidenceFilePath    *string   `gorm:"type:text" json:"evidence_file_path,omitempty"`
	Notes               *string   `gorm:"type:text" json:"notes,omitempty"`
}
