package repository

import (
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"gorm.io/gorm"
)

// GormCompletionRepository is a GORM implementation of CompletionRepository
type GormCompletionRepository struct {
	db *gorm.DB
}

// NewCompletionRepository creates a new CompletionRepository
func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &GormCompletionRepository{db: db}
}

// Create appends a completion record
func (r *GormCompletionRepository) Create(completion *models.TaskCompletion) error {
	return r.db.Create(completion).Error
}

// FindByID finds a completion by ID
func (r *GormCompletionRepository) FindByID(id string) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	if err := r.db.First(&completion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &completion, nil
}

// FindByUserAndTask returns the completion for (user, task) if one exists
func (r *GormCompletionRepository) FindByUserAndTask(userID, taskID string) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := r.db.Where("user_id = ? AND task_id = ?", userID, taskID).First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

// ListByUser lists all completions for a user, newest first
func (r *GormCompletionRepository) ListByUser(userID string) ([]models.TaskCompletion, error) {
	var completions []models.TaskCompletion
	err := r.db.Where("user_id = ?", userID).Order("completed_at DESC").Find(&completions).Error
	if err != nil {
		return nil, err
	}
	return completions, nil
}

// CountByUser counts completions for a user
func (r *GormCompletionRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskCompletion{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Count counts all completions
func (r *GormCompletionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.TaskCompletion{}).Count(&count).Error
	return count, err
}
