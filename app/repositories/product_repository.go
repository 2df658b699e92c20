package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/orm"
)

type ProductFilter struct {
	Category string
	orm.Page
}

// ProductRepository reads the catalog. It has no write methods.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func withSizes(db *gorm.DB) *gorm.DB {
	return db.Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func withImages(db *gorm.DB) *gorm.DB {
	return db.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") })
}

// Get loads one product with its sizes and ordered images.
func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Scopes(withSizes, withImages).First(&p, id).Error
	if orm.IsNotFound(err) {
		return nil, errs.E(errs.NotFound, "Produkten hittades inte")
	}
	if err != nil {
		return nil, fmt.Errorf("products: get %d: %w", id, err)
	}
	return &p, nil
}

// FindMany loads the products in ids, keyed by id. Missing ids are absent.
func (r *ProductRepository) FindMany(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	out := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	if err := r.db.WithContext(ctx).Scopes(withSizes).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("products: find many: %w", err)
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// List returns a page of products, newest first, and the total count.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
	}

	var rows []models.Product
	err := q.Scopes(withSizes, orm.Paginate(f.Page)).Order("created_at desc, id desc").Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	return rows, total, nil
}

// Search matches query case-insensitively anywhere in the title. A blank
// query matches nothing.
func (r *ProductRepository) Search(ctx context.Context, query string, page orm.Page) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}, nil
	}

	var rows []models.Product
	err := r.db.WithContext(ctx).
		Scopes(withSizes, orm.Paginate(page)).
		Where("LOWER(title) LIKE LOWER(?) ESCAPE '"+orm.LikeEscape+"'", orm.Contains(query)).
		Order("title, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("products: search: %w", err)
	}
	return rows, nil
}

// Categories lists distinct non-empty categories.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("category <> ''").
		Distinct().Order("category").
		Pluck("category", &out).Error
	if err != nil {
		return nil, fmt.Errorf("products: categories: %w", err)
	}
	return out, nil
}

// ProductIDsByProviderRef maps payment provider product ids to catalog ids.
// Refs without a catalog match are absent from the result.
func (r *ProductRepository) ProductIDsByProviderRef(ctx context.Context, refs []string) (map[string]uint, error) {
	out := make(map[string]uint, len(refs))
	if len(refs) == 0 {
		return out, nil
	}

	var rows []struct {
		ID              uint
		StripeProductID string
	}
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("id, stripe_product_id").
		Where("stripe_product_id IN ?", refs).
		Order("id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("products: by provider ref: %w", err)
	}
	for _, row := range rows {
		if _, dup := out[row.StripeProductID]; !dup {
			out[row.StripeProductID] = row.ID
		}
	}
	return out, nil
}
