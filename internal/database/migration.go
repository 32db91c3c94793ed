package database

import (
	"fmt"

	"github.com/1kta4/finances/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models, then applies
// additive column migrations for databases created by older releases.
func AutoMigrate(db *gorm.DB, log *logrus.Logger) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Transaction{},
		&models.Goal{},
		&models.Settings{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	addColumns(db, log)
	return nil
}

// Columns introduced after the first release. SQLite has no
// ADD COLUMN IF NOT EXISTS, so re-running these on an up-to-date database
// fails with "duplicate column name"; that failure is expected and swallowed.
var additiveColumns = []string{
	`ALTER TABLE transactions ADD COLUMN custom_months INTEGER`,
	`ALTER TABLE transactions ADD COLUMN parent_id TEXT`,
	`ALTER TABLE transactions ADD COLUMN next_occurrence DATETIME`,
	`ALTER TABLE transactions ADD COLUMN synced INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE settings ADD COLUMN last_backup_at DATETIME`,
}

func addColumns(db *gorm.DB, log *logrus.Logger) {
	for _, stmt := range additiveColumns {
		if err := db.Exec(stmt).Error; err != nil {
			if log != nil {
				log.WithField("stmt", stmt).Debugf("additive migration skipped: %v", err)
			}
		}
	}
}
