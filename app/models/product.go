package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Rows are maintained by the shop's admin
// tooling; the storefront only reads them.
type Product struct {
	ID              uint            `gorm:"primaryKey"                           json:"id"`
	Title           string          `gorm:"size:255;not null;index"              json:"title"`
	Description     string          `gorm:"type:text"                            json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"          json:"price"`
	Category        string          `gorm:"size:100;index"                       json:"category"`
	Color           string          `gorm:"size:100"                             json:"color"`
	ImageURL        string          `gorm:"size:1024"                            json:"image_url"`
	StripeProductID *string         `gorm:"size:255;index"                       json:"-"`
	StripePriceID   *string         `gorm:"size:255"                             json:"-"`
	CreatedAt       time.Time       `json:"created_at"`

	Sizes  []ProductSize  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product_sizes,omitempty"`
	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product_images,omitempty"`
}

func (Product) TableName() string { return "products" }

// PriceRef returns the payment provider price id, or "" when unset.
func (p *Product) PriceRef() string {
	if p.StripePriceID == nil {
		return ""
	}
	return strings.TrimSpace(*p.StripePriceID)
}

// HasSizes reports whether the product has a size dimension.
func (p *Product) HasSizes() bool { return len(p.Sizes) > 0 }

// SoldOut reports whether a sized product has no size in stock.
// Products without sizes are never sold out by this rule.
func (p *Product) SoldOut() bool {
	if !p.HasSizes() {
		return false
	}
	for _, s := range p.Sizes {
		if s.InStock {
			return false
		}
	}
	return true
}

// Size returns the variant labelled label.
func (p *Product) Size(label string) (ProductSize, bool) {
	for _, s := range p.Sizes {
		if s.Size == label {
			return s, true
		}
	}
	return ProductSize{}, false
}

// Gallery returns images in display order, falling back to the primary
// image when the product has no image rows.
func (p *Product) Gallery() []ProductImage {
	if len(p.Images) > 0 {
		return p.Images
	}
	if p.ImageURL == "" {
		return nil
	}
	return []ProductImage{{ProductID: p.ID, ImageURL: p.ImageURL}}
}

type ProductSize struct {
	ID        uint   `gorm:"primaryKey"                                     json:"id"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_product_sizes_label,priority:1" json:"product_id"`
	Size      string `gorm:"size:20;not null;uniqueIndex:idx_product_sizes_label,priority:2" json:"size"`
	InStock   bool   `gorm:"not null"                                       json:"in_stock"`
}

func (ProductSize) TableName() string { return "product_sizes" }

type ProductImage struct {
	ID        uint   `gorm:"primaryKey"         json:"id"`
	ProductID uint   `gorm:"not null;index"     json:"product_id"`
	ImageURL  string `gorm:"size:1024;not null" json:"image_url"`
	SortOrder int    `gorm:"not null"           json:"order"`
}

func (ProductImage) TableName() string { return "product_images" }
