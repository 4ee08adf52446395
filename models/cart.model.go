package models

import (
	"time"
)

// Cart holds the pending line items for one account. Total is a derived
// value recomputed from live product prices on every mutation, not a source
// of truth.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	AccountID uint       `gorm:"uniqueIndex;not null" json:"account_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	Total     float64    `gorm:"default:0" json:"total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CartID    uint `gorm:"index;not null" json:"cart_id"`
	ProductID uint `gorm:"index;not null" json:"product_id"`
	Quantity  int  `gorm:"not null;check:quantity >= 1" json:"quantity"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}
