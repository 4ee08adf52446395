package models

import (
	"time"
)

type Review struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProductID  uint   `gorm:"index;not null" json:"product_id"`
	CustomerID uint   `gorm:"index;not null" json:"customer_id"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`

	Product  Product `gorm:"foreignKey:ProductID" json:"product"`
	Customer Account `gorm:"foreignKey:CustomerID" json:"customer"`
}
