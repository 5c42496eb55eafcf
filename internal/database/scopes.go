package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/earn-your-wings-api/internal/utils"
)

// Paginate is a gorm scope restricting a query to the window in params.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
