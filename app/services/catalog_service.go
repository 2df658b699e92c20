package services

import (
	"context"
	"strings"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/pkg/orm"
)

// CatalogService is the read-only product surface shared by the REST and
// GraphQL handlers.
type CatalogService struct {
	products *repositories.ProductRepository
}

func NewCatalogService(products *repositories.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

type ProductPage struct {
	Products []models.Product
	Total    int64
	Page     orm.Page
}

func (s *CatalogService) List(ctx context.Context, category string, page orm.Page) (ProductPage, error) {
	page = page.Normalize()
	rows, total, err := s.products.List(ctx, repositories.ProductFilter{
		Category: strings.TrimSpace(category),
		Page:     page,
	})
	if err != nil {
		return ProductPage{}, errs.Wrap(errs.Internal, err, "could not load products")
	}
	return ProductPage{Products: rows, Total: total, Page: page}, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, errs.E(errs.InvalidArgument, "Ogiltigt produkt-id")
	}
	return s.products.Get(ctx, id)
}

// Search matches query as a case-insensitive title substring. A blank
// query matches nothing.
func (s *CatalogService) Search(ctx context.Context, query string, page orm.Page) ([]models.Product, error) {
	rows, err := s.products.Search(ctx, strings.TrimSpace(query), page.Normalize())
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "could not search products")
	}
	return rows, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.products.Categories(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "could not load categories")
	}
	return cats, nil
}
