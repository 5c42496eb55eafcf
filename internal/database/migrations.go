package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database. Postgres
// only; AutoMigrate already covers the tagged indexes, these are the extra
// lookup paths the read side leans on.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Completion lookups: duplicate check and per-user listing
		{"task_completions", "idx_completions_user_task", "user_id, task_id"},
		{"task_completions", "idx_completions_completed_at", "completed_at"},

		// Task filtering for the aggregator and list endpoints
		{"tasks", "idx_tasks_active", "active"},
		{"tasks", "idx_tasks_sort_order", "sort_order"},

		// Portfolio listing by user and status
		{"portfolio_items", "idx_portfolio_user_status", "user_id, status"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
