// Package resources shapes models into API responses. Image references are
// resolved to URLs on the configured storage disk here, so stored rows can
// hold either disk keys or absolute URLs.
package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/collection"
	"github.com/chiquebutik/butik/pkg/storage"
)

type Presenter struct {
	disk storage.Disk
}

// NewPresenter returns a presenter. A nil disk leaves image refs as stored.
func NewPresenter(disk storage.Disk) *Presenter {
	return &Presenter{disk: disk}
}

type Size struct {
	ID      uint   `json:"id"`
	Size    string `json:"size"`
	InStock bool   `json:"in_stock"`
}

type Image struct {
	ID       uint   `json:"id,omitempty"`
	ImageURL string `json:"image_url"`
	Order    int    `json:"order"`
}

type Product struct {
	ID          uint      `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`
	ImageURL    string    `json:"image_url"`
	SoldOut     bool      `json:"sold_out"`
	Sizes       []Size    `json:"product_sizes"`
	Images      []Image   `json:"product_images"`
	CreatedAt   time.Time `json:"created_at"`
}

// Slug is the URL fragment the storefront uses for product pages.
func Slug(p *models.Product) string {
	return fmt.Sprintf("%s-%d", slug.Make(p.Title), p.ID)
}

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (pr *Presenter) Product(ctx context.Context, p *models.Product) Product {
	return Product{
		ID:          p.ID,
		Slug:        Slug(p),
		Title:       p.Title,
		Description: p.Description,
		Price:       Money(p.Price),
		Category:    p.Category,
		Color:       p.Color,
		ImageURL:    storage.Resolve(ctx, pr.disk, p.ImageURL),
		SoldOut:     p.SoldOut(),
		Sizes: collection.Map(p.Sizes, func(s models.ProductSize) Size {
			return Size{ID: s.ID, Size: s.Size, InStock: s.InStock}
		}),
		Images: collection.Map(p.Gallery(), func(img models.ProductImage) Image {
			return Image{ID: img.ID, ImageURL: storage.Resolve(ctx, pr.disk, img.ImageURL), Order: img.SortOrder}
		}),
		CreatedAt: p.CreatedAt,
	}
}

func (pr *Presenter) Products(ctx context.Context, ps []models.Product) []Product {
	out := make([]Product, len(ps))
	for i := range ps {
		out[i] = pr.Product(ctx, &ps[i])
	}
	return out
}
