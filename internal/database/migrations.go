package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds composite indexes that AutoMigrate tags do not cover. The
// assignee/status index backs the conflict-check hot path (all active rows of
// one assignee); the window index backs timeline and absence queries.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"assignments", "idx_assignments_assignee_status", "assignee_type, assignee_id, status"},
		{"assignments", "idx_assignments_window", "assignee_type, assignee_id, start_date, end_date"},
		{"assignment_histories", "idx_assignment_histories_order", "assignment_id, created_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
