package migrations

import (
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/migration"
)

func init() {
	migration.Register("20250301000000_create_catalog_tables", migration.Func{
		UpFn: func(db *gorm.DB) error {
			return db.AutoMigrate(&models.Product{}, &models.ProductSize{}, &models.ProductImage{})
		},
		DownFn: func(db *gorm.DB) error {
			return db.Migrator().DropTable("product_images", "product_sizes", "products")
		},
	})
}
