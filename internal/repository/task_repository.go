package repository

import (
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks matching the filter, ordered by sort order ascending.
// Ties fall back to creation time, which preserves insertion order.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	if filter.CompetencyArea != nil {
		query = query.Where("competency_area = ?", *filter.CompetencyArea)
	}
	if filter.SubCompetency != nil {
		query = query.Where("sub_competency = ?", *filter.SubCompetency)
	}
	if filter.TaskType != nil {
		query = query.Where("task_type = ?", *filter.TaskType)
	}

	if err := query.Order("sort_order ASC, created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// CountActive counts active tasks
func (r *GormTaskRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
