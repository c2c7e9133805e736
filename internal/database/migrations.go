package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// indexes are created outside AutoMigrate so their column order is explicit.
var indexes = []index{
	// Owner lookups always filter on both columns, type first
	{"files", "idx_files_fileable", "fileable_type, fileable_id"},
	{"files", "idx_files_path", "path"},

	{"tasks", "idx_tasks_course_id", "course_id"},
	{"tasks", "idx_tasks_status", "status"},
	{"tasks", "idx_tasks_due_date", "due_date"},

	{"courses", "idx_courses_level", "level"},
}

// AddIndexes adds lookup indexes that are missing from the database
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}
