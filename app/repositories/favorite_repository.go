package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chiquebutik/butik/app/models"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Toggle removes the (user, product) favorite if present, otherwise adds it.
// fav is nil when the favorite was removed.
func (r *FavoriteRepository) Toggle(ctx context.Context, userID string, productID uint) (added bool, fav *models.Favorite, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		// A concurrent toggle may have inserted the pair since the delete.
		row := models.Favorite{UserID: userID, ProductID: productID}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}

		var stored models.Favorite
		if err := tx.Preload("Product").
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&stored).Error; err != nil {
			return err
		}
		added, fav = true, &stored
		return nil
	})
	if err != nil {
		return false, nil, fmt.Errorf("favorites: toggle: %w", err)
	}
	return added, fav, nil
}

// List returns the user's favorites with product sizes and images.
func (r *FavoriteRepository) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	var rows []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("favorites: list: %w", err)
	}
	return rows, nil
}
