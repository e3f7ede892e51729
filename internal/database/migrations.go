package database

import (
	logger "github.com/Bparsons0904/goLogger"
)

// CreateIndexes creates query-path indexes that GORM's struct tags cannot
// express. The exclusion constraint guarding double-booking lives in the
// SQL migration files because ALTER TABLE ... ADD CONSTRAINT has no
// IF NOT EXISTS form.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_schedules_company_date ON schedules(company_id, job_date)",
		"CREATE INDEX IF NOT EXISTS idx_schedules_company_status ON schedules(company_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_schedule_assignments_cleaner_date ON schedule_assignments(cleaner_id, job_date) WHERE active",
		"CREATE INDEX IF NOT EXISTS idx_reports_schedule ON reports(schedule_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
