package repository

import (
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProgressRepository is a GORM implementation of ProgressRepository
type GormProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &GormProgressRepository{db: db}
}

// Upsert inserts or updates the progress row keyed by
// (user_id, competency_area, sub_competency). On conflict only the computed
// fields are assigned: evidence_items keeps whatever the portfolio flow has
// written, and is initialized empty only on first insert.
func (r *GormProgressRepository) Upsert(progress *models.CompetencyProgress) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "competency_area"},
			{Name: "sub_competency"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"completion_percentage",
			"completed_tasks",
			"total_tasks",
			"last_updated",
		}),
	}).Create(progress).Error
}

// FindByUserAndLeaf finds the progress row for one sub-competency
func (r *GormProgressRepository) FindByUserAndLeaf(userID, area, sub string) (*models.CompetencyProgress, error) {
	var progress models.CompetencyProgress
	err := r.db.Where("user_id = ? AND competency_area = ? AND sub_competency = ?", userID, area, sub).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListByUser lists all progress rows for a user
func (r *GormProgressRepository) ListByUser(userID string) ([]models.CompetencyProgress, error) {
	var records []models.CompetencyProgress
	if err := r.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save persists a full progress row
func (r *GormProgressRepository) Save(progress *models.CompetencyProgress) error {
	return r.db.Save(progress).Error
}
