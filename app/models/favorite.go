package models

import "time"

type Favorite struct {
	ID        uint      `gorm:"primaryKey"                                             json:"id"`
	UserID    string    `gorm:"size:255;not null;uniqueIndex:idx_favorite,priority:1" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_favorite,priority:2"          json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

func (Favorite) TableName() string { return "favorites" }
