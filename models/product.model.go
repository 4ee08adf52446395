package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductStatus is the seller-controlled listing status.
type ProductStatus string

const (
	ProductActive   ProductStatus = "Active"
	ProductInactive ProductStatus = "Inactive"
)

// ProductType tracks availability separate from status.
type ProductType string

const (
	ProductAvailable  ProductType = "Available"
	ProductOutOfStock ProductType = "Out of Stock"
)

type Product struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	SellerID   uint `gorm:"index;not null" json:"seller_id"`
	CategoryID uint `gorm:"index" json:"category_id"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;check:price >= 0" json:"price"`
	Stock       int     `gorm:"default:0;check:stock >= 0" json:"stock"`
	Image       string  `json:"image"`

	Status     ProductStatus `gorm:"default:'Active';size:20" json:"status"`
	Type       ProductType   `gorm:"default:'Available';size:20" json:"type"`
	IsApproved bool          `gorm:"default:false" json:"is_approved"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	// Relations
	Seller   Account  `gorm:"foreignKey:SellerID" json:"seller"`
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// Orderable reports whether the product itself may appear in a new order.
// Seller eligibility is checked separately.
func (p *Product) Orderable() bool {
	return p.Status == ProductActive && p.Type == ProductAvailable && p.IsApproved
}
