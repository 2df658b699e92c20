package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/orm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func withProduct(db *gorm.DB) *gorm.DB {
	return db.Preload("Product").Preload("Product.Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// AddQuantity inserts the (user, product, size) line or increments the
// existing one in a single statement, then returns the stored line.
func (r *CartRepository) AddQuantity(ctx context.Context, userID string, productID uint, size *string, qty int) (*models.CartLine, error) {
	line := models.CartLine{
		UserID:    userID,
		ProductID: productID,
		Size:      size,
		SizeKey:   models.SizeKeyOf(size),
		Quantity:  qty,
	}

	db := r.db.WithContext(ctx)
	increment := gorm.Expr("cart.quantity + excluded.quantity")
	if db.Dialector.Name() == "mysql" {
		increment = gorm.Expr("quantity + VALUES(quantity)")
	}

	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "size_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   increment,
			"updated_at": time.Now(),
		}),
	}).Create(&line).Error
	if err != nil {
		return nil, fmt.Errorf("cart: upsert: %w", err)
	}

	var stored models.CartLine
	err = db.Scopes(withProduct).
		Where("user_id = ? AND product_id = ? AND size_key = ?", userID, productID, line.SizeKey).
		First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("cart: reload line: %w", err)
	}
	return &stored, nil
}

// FindOwned loads a line only if it belongs to userID.
func (r *CartRepository) FindOwned(ctx context.Context, userID string, id uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).Scopes(withProduct).
		Where("id = ? AND user_id = ?", id, userID).
		First(&line).Error
	if orm.IsNotFound(err) {
		return nil, errs.E(errs.NotFound, "Varukorgsartikeln hittades inte")
	}
	if err != nil {
		return nil, fmt.Errorf("cart: find %d: %w", id, err)
	}
	return &line, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID string, id uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"quantity": qty, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("cart: set quantity %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.E(errs.NotFound, "Varukorgsartikeln hittades inte")
	}
	return nil
}

// Delete removes one owned line and reports rows affected.
func (r *CartRepository) Delete(ctx context.Context, userID string, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, fmt.Errorf("cart: delete %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, fmt.Errorf("cart: clear: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// List returns the user's lines in insertion order with products joined.
func (r *CartRepository) List(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).Scopes(withProduct).
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("cart: list: %w", err)
	}
	return lines, nil
}
