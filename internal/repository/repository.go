package repository

import (
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with pagination
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// CountNonAdmin counts users without the admin flag
	CountNonAdmin() (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	CompetencyArea *string
	SubCompetency  *string
	TaskType       *models.TaskType
	ActiveOnly     bool
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// List retrieves tasks matching the filter, ordered by sort order
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// CountActive counts active tasks
	CountActive() (int64, error)
}

// CompletionRepository defines the interface for task-completion data access
type CompletionRepository interface {
	// Create appends a completion record
	Create(completion *models.TaskCompletion) error

	// FindByID finds a completion by ID
	FindByID(id string) (*models.TaskCompletion, error)

	// FindByUserAndTask returns the completion for (user, task) if one exists
	FindByUserAndTask(userID, taskID string) (*models.TaskCompletion, error)

	// ListByUser lists all completions for a user
	ListByUser(userID string) ([]models.TaskCompletion, error)

	// CountByUser counts completions for a user
	CountByUser(userID string) (int64, error)

	// Count counts all completions
	Count() (int64, error)
}

// ProgressRepository defines the interface for competency-progress data access
type ProgressRepository interface {
	// Upsert inserts or updates the progress row for the record's
	// (user, area, sub-competency), touching only the computed fields on
	// update so evidence_items survives recomputation.
	Upsert(progress *models.CompetencyProgress) error

	// FindByUserAndLeaf finds the progress row for one sub-competency
	FindByUserAndLeaf(userID, area, sub string) (*models.CompetencyProgress, error)

	// ListByUser lists all progress rows for a user
	ListByUser(userID string) ([]models.CompetencyProgress, error)

	// Save persists a full progress row (used for evidence mutations)
	Save(progress *models.CompetencyProgress) error
}

// PortfolioRepository defines the interface for portfolio-item data access
type PortfolioRepository interface {
	// Create creates a new portfolio item
	Create(item *models.PortfolioItem) error

	// FindByID finds a portfolio item by ID
	FindByID(id string) (*models.PortfolioItem, error)

	// ListByUser lists a user's items, excluding deleted ones
	ListByUser(userID string) ([]models.PortfolioItem, error)

	// Update persists changes to an item
	Update(item *models.PortfolioItem) error

	// CountByStatus counts items with the given status
	CountByStatus(status models.PortfolioStatus) (int64, error)
}
