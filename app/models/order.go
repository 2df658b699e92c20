package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPaid is the only status this service writes. Payment failure,
// expiry and refunds are not modelled.
const OrderStatusPaid = "paid"

// Order is written once per completed checkout session and never updated.
type Order struct {
	ID            uint            `gorm:"primaryKey"                    json:"id"`
	UserID        *string         `gorm:"size:255;index"                json:"user_id"`
	StripeSession string          `gorm:"size:255;not null;uniqueIndex" json:"stripe_session"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"total_amount"`
	Currency      string          `gorm:"size:3;not null"               json:"currency"`
	Status        string          `gorm:"size:20;not null"              json:"status"`
	Email         string          `gorm:"size:255"                      json:"email"`
	CreatedAt     time.Time       `json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots one provider line item. ProductID is nil when the
// provider's product has no catalog match.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"                  json:"id"`
	OrderID     uint            `gorm:"not null;index"              json:"order_id"`
	ProductID   *uint           `gorm:"index"                       json:"product_id"`
	ProductRef  string          `gorm:"size:255"                    json:"-"`
	Description string          `gorm:"size:255"                    json:"description"`
	Quantity    int             `gorm:"not null"                    json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
