package migrations

import (
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/migration"
)

func init() {
	migration.Register("20250301000300_create_orders_tables", migration.Func{
		UpFn: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
		},
		DownFn: func(db *gorm.DB) error {
			return db.Migrator().DropTable("order_items", "orders")
		},
	})
}
