package models

import "time"

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey"         json:"id"`
	Name      string    `gorm:"size:120;not null"  json:"name"`
	Email     string    `gorm:"size:255;not null"  json:"email"`
	Subject   string    `gorm:"size:200;not null"  json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// ContactInfo is the shop's public contact card.
type ContactInfo struct {
	ID           uint      `gorm:"primaryKey"  json:"id"`
	Company      string    `gorm:"size:255"    json:"company"`
	Address      string    `gorm:"size:255"    json:"address"`
	Phone        string    `gorm:"size:50"     json:"phone"`
	OpeningHours string    `gorm:"type:text"   json:"opening_hours"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ContactInfo) TableName() string { return "contact_info" }
