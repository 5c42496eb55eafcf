package dto

import (
	"time"

	"github.com/yukikurage/earn-your-wings-api/internal/models"
)

// AdminStats is the aggregate dashboard summary.
type AdminStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalTasks       int64 `json:"total_tasks"`
	TotalCompletions int64 `json:"total_completions"`
	// CompletionRate is completions / (tasks x users) x 100: a rough
	// saturation measure carried over from the original API, not a true
	// per-user rate.
	CompletionRate  float64 `json:"completion_rate"`
	CompetencyAreas int     `json:"competency_areas"`
}

// AdminUser joins a user with their completion count and mean progress.
type AdminUser struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	Name            string      `json:"name"`
	Role            models.Role `json:"role"`
	Level           string      `json:"level"`
	IsAdmin         bool        `json:"is_admin"`
	CreatedAt       time.Time   `json:"created_at"`
	CompletionCount int64       `json:"completion_count"`
	OverallProgress float64     `json:"overall_progress"`
}

// StorageRecordCounts cross-references disk usage against the database.
type StorageRecordCounts struct {
	ActivePortfolioItems   int64 `json:"active_portfolio_items"`
	ArchivedPortfolioItems int64 `json:"archived_portfolio_items"`
	TaskCompletions        int64 `json:"task_completions"`
}
