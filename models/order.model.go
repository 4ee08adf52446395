package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderInTransit  OrderStatus = "In Transit"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus validates a raw status string against the allow-list.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderProcessing, OrderInTransit, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("invalid order status: %q", s)
}

// CanTransitionTo enforces forward-only progression. Delivered and Cancelled
// are terminal; nothing moves out of them, and nothing moves backwards.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderProcessing:
		return next == OrderInTransit || next == OrderDelivered || next == OrderCancelled
	case OrderInTransit:
		return next == OrderDelivered || next == OrderCancelled
	default:
		return false
	}
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// DeliveryMethod selects between courier delivery and on-site pickup.
// Pickup forces the shipping fee to zero.
type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "Delivery"
	DeliveryPickup  DeliveryMethod = "Pickup"
)

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "COD"
	PaymentGCash PaymentMethod = "GCASH"
)

type PaymentStatus string

const (
	PaymentToPay  PaymentStatus = "To Pay"
	PaymentPaid   PaymentStatus = "Paid"
	PaymentFailed PaymentStatus = "Failed"
)

// Order is an immutable-after-creation snapshot of a purchase. The shipping
// address is copied into the row, not referenced, so later address edits do
// not rewrite order history.
type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Human-facing 8-digit numeric identifier, collision-checked at creation.
	OrderID string `gorm:"uniqueIndex;not null;size:8" json:"order_id"`

	AccountID uint        `gorm:"index;not null" json:"account_id"`
	Items     []OrderItem `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" json:"items"`

	TotalAmount    float64        `gorm:"not null;check:total_amount >= 0" json:"total_amount"`
	ShippingFee    float64        `gorm:"default:0" json:"shipping_fee"`
	DeliveryMethod DeliveryMethod `gorm:"default:'Delivery';size:20" json:"delivery_method"`
	Status         OrderStatus    `gorm:"default:'Processing';size:20" json:"status"`

	PaymentMethod PaymentMethod `gorm:"default:'COD';size:10" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"default:'To Pay';size:10" json:"payment_status"`

	// Shipping address snapshot
	ShipStreet   string `gorm:"size:255" json:"ship_street"`
	ShipCity     string `gorm:"size:100" json:"ship_city"`
	ShipProvince string `gorm:"size:100" json:"ship_province"`
	ShipZipcode  string `gorm:"size:20" json:"ship_zipcode"`
	ShipCountry  string `gorm:"size:100" json:"ship_country"`

	Note string `gorm:"type:text" json:"note"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"account"`
}

// OrderItem is a purchase-time copy of a cart line. UnitPrice freezes the
// product price at commit; IsRated tracks review eligibility.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderRef  uint    `gorm:"index;not null" json:"order_ref"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Quantity  int     `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	IsRated   bool    `gorm:"default:false" json:"is_rated"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

// SnapshotAddress copies the chosen shipping address into the order row.
func (o *Order) SnapshotAddress(a Address) {
	o.ShipStreet = a.Street
	o.ShipCity = a.City
	o.ShipProvince = a.Province
	o.ShipZipcode = a.Zipcode
	o.ShipCountry = a.Country
}
