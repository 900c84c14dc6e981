package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/business-management-api/internal/utils"
)

// Paginate applies offset/limit to a GORM query
func Paginate(params utils.ListParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Sort orders by a column that the caller has already validated.
func Sort(column string, desc bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if column == "" {
			return db
		}
		direction := "ASC"
		if desc {
			direction = "DESC"
		}
		return db.Order(fmt.Sprintf("%s %s", column, direction))
	}
}
