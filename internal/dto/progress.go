package dto

import (
	"time"
)

// SubCompetencyProgress is one leaf of a user's competency view.
type SubCompetencyProgress struct {
	Key                  string    `json:"key"`
	Name                 string    `json:"name"`
	CompletionPercentage float64   `json:"completion_percentage"`
	CompletedTasks       int       `json:"completed_tasks"`
	TotalTasks           int       `json:"total_tasks"`
	EvidenceItems        []string  `json:"evidence_items"`
	LastUpdated          time.Time `json:"last_updated"`
}

// CompetencyAreaProgress groups a user's progress for one competency area.
// OverallProgress is the arithmetic mean of the sub-competency percentages.
type CompetencyAreaProgress struct {
	Key             string                  `json:"key"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	OverallProgress float64                 `json:"overall_progress"`
	SubCompetencies []SubCompetencyProgress `json:"sub_competencies"`
}
