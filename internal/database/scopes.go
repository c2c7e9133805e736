package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/school-management-api/internal/models"
	"github.com/yukikurage/school-management-api/internal/utils"
)

// Paginate applies pagination to a GORM query. A nil params leaves the query unbounded.
func Paginate(params *utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy restricts a files query to the rows belonging to owner.
// The type tag is always part of the condition, so ids shared across
// tables never match.
func OwnedBy(owner models.OwnerRef) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("fileable_type = ? AND fileable_id = ?", owner.Type(), owner.ID())
	}
}
