package migrations

import (
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/migration"
	"github.com/chiquebutik/butik/pkg/queue"
)

func init() {
	migration.Register("20250301000400_create_contact_tables", migration.Func{
		UpFn: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.ContactMessage{}, &models.ContactInfo{})
		},
		DownFn: func(db *gorm.DB) error {
			return db.Migrator().DropTable("contact_info", "contact_messages")
		},
	})

	migration.Register("20250301000500_create_failed_jobs_table", migration.Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&queue.FailedJobRecord{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable(&queue.FailedJobRecord{}) },
	})
}
