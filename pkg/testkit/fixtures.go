package testkit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/models"
)

// ProductOption customises a fixture product before insert.
type ProductOption func(*models.Product)

// WithSizes adds size variants; a label ending in "!" is out of stock.
func WithSizes(labels ...string) ProductOption {
	return func(p *models.Product) {
		for _, l := range labels {
			inStock := true
			if n := len(l); n > 0 && l[n-1] == '!' {
				l, inStock = l[:n-1], false
			}
			p.Sizes = append(p.Sizes, models.ProductSize{Size: l, InStock: inStock})
		}
	}
}

// WithStripe sets provider product and price references.
func WithStripe(productRef, priceRef string) ProductOption {
	return func(p *models.Product) {
		if productRef != "" {
			p.StripeProductID = &productRef
		}
		if priceRef != "" {
			p.StripePriceID = &priceRef
		}
	}
}

func WithCategory(c string) ProductOption {
	return func(p *models.Product) { p.Category = c }
}

// Product inserts a product with its sizes and returns it.
func Product(t testing.TB, db *gorm.DB, title, price string, opts ...ProductOption) models.Product {
	t.Helper()

	p := models.Product{
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Category: "klänningar",
		ImageURL: "products/" + title + ".jpg",
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(t, db.Create(&p).Error, "testkit: create product")
	return p
}

// SetStock flips the in_stock flag of one size.
func SetStock(t testing.TB, db *gorm.DB, productID uint, size string, inStock bool) {
	t.Helper()
	err := db.Model(&models.ProductSize{}).
		Where("product_id = ? AND size = ?", productID, size).
		Update("in_stock", inStock).Error
	require.NoError(t, err)
}

// Count returns the number of rows in model's table.
func Count(t testing.TB, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
