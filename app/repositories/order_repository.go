package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/orm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) ExistsBySession(ctx context.Context, sessionRef string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("stripe_session = ?", sessionRef).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("orders: exists: %w", err)
	}
	return n > 0, nil
}

// Create writes the order and its items in one transaction. The raw
// database error is returned so callers can detect unique violations on
// stripe_session.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	items := order.Items
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.CreateInBatches(&items, 100).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

func (r *OrderRepository) Get(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&o, id).Error
	if orm.IsNotFound(err) {
		return nil, errs.E(errs.NotFound, "Ordern hittades inte")
	}
	if err != nil {
		return nil, fmt.Errorf("orders: get %d: %w", id, err)
	}
	return &o, nil
}

// ListForUser returns the user's orders, newest first.
func (r *OrderRepository) ListForUser(ctx context.Context, userID string, page orm.Page) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID).
		Scopes(orm.Paginate(page)).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return rows, nil
}
