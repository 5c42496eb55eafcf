package repository

import (
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"gorm.io/gorm"
)

// GormPortfolioRepository is a GORM implementation of PortfolioRepository
type GormPortfolioRepository struct {
	db *gorm.DB
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &GormPortfolioRepository{db: db}
}

// Create creates a new portfolio item
func (r *GormPortfolioRepository) Create(item *models.PortfolioItem) error {
	return r.db.Create(item).Error
}

// FindByID finds a portfolio item by ID
func (r *GormPortfolioRepository) FindByID(id string) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser lists a user's items newest first, excluding deleted ones
func (r *GormPortfolioRepository) ListByUser(userID string) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	err := r.db.Where("user_id = ? AND status <> ?", userID, models.PortfolioStatusDeleted).
		Order("upload_date DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists changes to an item
func (r *GormPortfolioRepository) Update(item *models.PortfolioItem) error {
	return r.db.Save(item).Error
}

// CountByStatus counts items with the given status
func (r *GormPortfolioRepository) CountByStatus(status models.PortfolioStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.PortfolioItem{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
