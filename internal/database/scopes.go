package database

import (
	"gorm.io/gorm"

	"blogapi/internal/utils"
)

// Paginate applies limit/offset pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
