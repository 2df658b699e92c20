package migrations

import (
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/migration"
)

func init() {
	// idx_cart_line on (user_id, product_id, size_key) backs the add-to-cart upsert.
	migration.Register("20250301000100_create_cart_table", migration.Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&models.CartLine{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable("cart") },
	})

	migration.Register("20250301000200_create_favorites_table", migration.Func{
		UpFn:   func(db *gorm.DB) error { return db.AutoMigrate(&models.Favorite{}) },
		DownFn: func(db *gorm.DB) error { return db.Migrator().DropTable("favorites") },
	})
}
