package models

import (
	"time"
)

type TaskType string

const (
	TaskTypeCourseLink     TaskType = "course_link"
	TaskTypeDocumentUpload TaskType = "document_upload"
	TaskTypeAssessment     TaskType = "assessment"
	TaskTypeShadowing      TaskType = "shadowing"
	TaskTypeMeeting        TaskType = "meeting"
	TaskTypeProject        TaskType = "project"
)

// ValidTaskType reports whether t is one of the known task types.
func ValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeCourseLink, TaskTypeDocumentUpload, TaskTypeAssessment,
		TaskTypeShadowing, TaskTypeMeeting, TaskTypeProject:
		return true
	}
	return false
}

// Task is an admin-authored unit of work mapped to one sub-competency.
// Area/sub-competency keys are not validated against the catalog at write
// time; legacy drift is tolerated and filtered on the read path instead.
type Task struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description"`
	TaskType       TaskType  `gorm:"type:varchar(30);not null" json:"task_type"`
	CompetencyArea string    `gorm:"type:varchar(100);not null;index:idx_tasks_leaf" json:"competency_area"`
	SubCompetency  string    `gorm:"type:varchar(100);not null;index:idx_tasks_leaf" json:"sub_competency"`
	Order          int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	Required       bool      `gorm:"not null;default:true" json:"required"`
	EstimatedHours float64   `gorm:"not null;default:0" json:"estimated_hours"`
	ExternalLink   *string   `gorm:"type:text" json:"external_link,omitempty"`
	Instructions   *string   `gorm:"type:text" json:"instructions,omitempty"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedBy      string    `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
