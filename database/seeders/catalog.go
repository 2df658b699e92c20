package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
	Register("contact_info", SeedContactInfo)
}

type demoProduct struct {
	title, price, category, color string
	sizes                         []string
	soldOut                       []string
	images                        int
}

var demoCatalog = []demoProduct{
	{title: "Sommarklänning Blå", price: "599.00", category: "klänningar", color: "blå", sizes: []string{"XS", "S", "M", "L"}, soldOut: []string{"XS"}, images: 3},
	{title: "Linneklänning Sand", price: "799.00", category: "klänningar", color: "sand", sizes: []string{"S", "M", "L"}, images: 2},
	{title: "Stickad Kofta", price: "649.00", category: "tröjor", color: "grädde", sizes: []string{"S", "M", "L", "XL"}, images: 2},
	{title: "Sidenblus Rosa", price: "549.00", category: "blusar", color: "rosa", sizes: []string{"XS", "S", "M"}, soldOut: []string{"XS", "S", "M"}, images: 1},
	{title: "Läderväska Cognac", price: "1295.00", category: "accessoarer", color: "cognac", images: 2},
	{title: "Sjal Ull", price: "349.00", category: "accessoarer", color: "grå"},
}

// SeedCatalog inserts the demo catalog once. Existing products are left
// untouched.
func SeedCatalog(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i, d := range demoCatalog {
			p := models.Product{
				Title:       d.title,
				Description: d.title + " från ChiqueButiks egen kollektion.",
				Price:       decimal.RequireFromString(d.price),
				Category:    d.category,
				Color:       d.color,
				ImageURL:    imageKey(i, 0),
			}
			for _, s := range d.sizes {
				p.Sizes = append(p.Sizes, models.ProductSize{Size: s, InStock: !contains(d.soldOut, s)})
			}
			for j := 0; j < d.images; j++ {
				p.Images = append(p.Images, models.ProductImage{ImageURL: imageKey(i, j), SortOrder: j})
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func SeedContactInfo(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.ContactInfo{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.Create(&models.ContactInfo{
		Company:      "ChiqueButik AB",
		Address:      "Storgatan 12, 211 34 Malmö",
		Phone:        "040-12 34 56",
		OpeningHours: "Mån-Fre 10-18, Lör 10-15, Sön stängt",
	}).Error
}

func imageKey(product, n int) string {
	return "products/demo-" + string(rune('a'+product)) + "-" + string(rune('1'+n)) + ".jpg"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
