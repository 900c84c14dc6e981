package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds composite indexes the struct tags cannot express.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task lists per assignee or author filtered by status
		{"tasks", "idx_tasks_assignee_status", "assignee, status"},
		{"tasks", "idx_tasks_created_by_status", "created_by, status"},

		// Conflict scans read attendee windows
		{"meetings", "idx_meetings_window", "start_at, end_at"},
		{"employee_meetings", "idx_employee_meetings_meeting_id", "meeting_id"},

		// Department rosters
		{"employees", "idx_employees_department_role", "department_id, role_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.Debug("index already exists", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
