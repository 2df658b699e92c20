package services

import (
	"context"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
)

// ToggleResult reports which way a favorite toggle went. Favorite is set
// only when Added is true.
type ToggleResult struct {
	Added    bool
	Favorite *models.Favorite
}

type FavoriteService struct {
	products  *repositories.ProductRepository
	favorites *repositories.FavoriteRepository
}

func NewFavoriteService(products *repositories.ProductRepository, favorites *repositories.FavoriteRepository) *FavoriteService {
	return &FavoriteService{products: products, favorites: favorites}
}

func (s *FavoriteService) Toggle(ctx context.Context, userID string, productID uint) (ToggleResult, error) {
	if userID == "" {
		return ToggleResult{}, errs.E(errs.Unauthorized, "Unauthorized")
	}
	if productID == 0 {
		return ToggleResult{}, errs.E(errs.InvalidArgument, "productId is required")
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return ToggleResult{}, err
	}

	added, fav, err := s.favorites.Toggle(ctx, userID, productID)
	if err != nil {
		return ToggleResult{}, errs.Wrap(errs.Internal, err, "could not update favorites")
	}
	return ToggleResult{Added: added, Favorite: fav}, nil
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	if userID == "" {
		return nil, errs.E(errs.Unauthorized, "Unauthorized")
	}
	rows, err := s.favorites.List(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "could not load favorites")
	}
	return rows, nil
}
