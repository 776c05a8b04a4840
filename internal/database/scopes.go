package database

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Paginate applies 1-based page/pageSize to a GORM query. Non-positive values
// leave the query unbounded.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		if pageSize > MaxPageSize {
			pageSize = MaxPageSize
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
