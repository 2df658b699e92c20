package services

import (
	"context"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/app/repositories"
	"github.com/chiquebutik/butik/pkg/orm"
)

type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService(orders *repositories.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// History lists the user's own orders, newest first.
func (s *OrderService) History(ctx context.Context, userID string, page orm.Page) ([]models.Order, error) {
	if userID == "" {
		return nil, errs.E(errs.Unauthorized, "Unauthorized")
	}
	rows, err := s.orders.ListForUser(ctx, userID, page.Normalize())
	if err != nil {
		return nil, errs.Wrap(errs.Internal, err, "could not load orders")
	}
	return rows, nil
}
