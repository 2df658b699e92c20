package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (user, product, size) row of a user's cart.
//
// Size is nil for unsized lines. SizeKey mirrors Size with "" for nil so the
// unique index treats "no size" as a single value; SQL NULLs never collide.
type CartLine struct {
	ID        uint      `gorm:"primaryKey"                                                     json:"id"`
	UserID    string    `gorm:"size:255;not null;uniqueIndex:idx_cart_line,priority:1"         json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_line,priority:2"                  json:"product_id"`
	Size      *string   `gorm:"size:20"                                                        json:"size"`
	SizeKey   string    `gorm:"size:20;not null;uniqueIndex:idx_cart_line,priority:3"                json:"-"`
	Quantity  int       `gorm:"not null"                                                       json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"products"`
}

func (CartLine) TableName() string { return "cart" }

// Subtotal is the joined product's current price times quantity.
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SizeKeyOf normalises an optional size into the unique-index key.
func SizeKeyOf(size *string) string {
	if size == nil {
		return ""
	}
	return *size
}
