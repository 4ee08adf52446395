package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// AccountStatus is the closed set of account statuses.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

type Account struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Human-readable role-prefixed identity code, e.g. BYR-00001, SLR-00001
	IDNumber string `gorm:"uniqueIndex;not null;size:20" json:"id_number"`

	Firstname    string `gorm:"size:100;not null" json:"firstname"`
	Lastname     string `gorm:"size:100;not null" json:"lastname"`
	Email        string `gorm:"uniqueIndex;not null;size:100" json:"email"`
	MobileNumber string `gorm:"size:20" json:"mobile_number"`
	Password     string `gorm:"not null" json:"-"`

	Role   Role          `gorm:"default:'buyer';size:20" json:"role"`
	Status AccountStatus `gorm:"default:'Active';size:20" json:"status"`

	Avatar  string `json:"avatar"`
	StoreID string `gorm:"size:50" json:"store_id"`

	Addresses []Address `gorm:"foreignKey:AccountID" json:"addresses"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// AddressCategory distinguishes buyer shipping addresses from seller origins.
type AddressCategory string

const (
	AddressShipping AddressCategory = "Shipping"
	AddressSeller   AddressCategory = "Seller"
)

// Address belongs to an account. At most one address per account carries
// IsDefault = true; the address update handler clears siblings before setting it.
type Address struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"index;not null" json:"account_id"`

	Category AddressCategory `gorm:"size:20;not null" json:"category"`
	Street   string          `gorm:"size:255" json:"street"`
	City     string          `gorm:"size:100" json:"city"`
	Province string          `gorm:"size:100" json:"province"`
	Zipcode  string          `gorm:"size:20" json:"zipcode"`
	Country  string          `gorm:"size:100;default:'Philippines'" json:"country"`

	IsDefault bool `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
