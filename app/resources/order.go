package resources

import (
	"time"

	"github.com/chiquebutik/butik/app/models"
	"github.com/chiquebutik/butik/pkg/collection"
)

type OrderItem struct {
	ProductID   *uint  `json:"product_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	LineTotal   string `json:"line_total"`
}

type Order struct {
	ID          uint        `json:"id"`
	TotalAmount string      `json:"total_amount"`
	Currency    string      `json:"currency"`
	Status      string      `json:"status"`
	Email       string      `json:"email"`
	CreatedAt   time.Time   `json:"created_at"`
	Items       []OrderItem `json:"order_items"`
}

func Orders(os []models.Order) []Order {
	return collection.Map(os, func(o models.Order) Order {
		return Order{
			ID:          o.ID,
			TotalAmount: Money(o.TotalAmount),
			Currency:    o.Currency,
			Status:      o.Status,
			Email:       o.Email,
			CreatedAt:   o.CreatedAt,
			Items: collection.Map(o.Items, func(it models.OrderItem) OrderItem {
				return OrderItem{
					ProductID:   it.ProductID,
					Description: it.Description,
					Quantity:    it.Quantity,
					Price:       Money(it.Price),
					LineTotal:   Money(it.LineTotal),
				}
			}),
		}
	})
}
