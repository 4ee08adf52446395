package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a durable record of a business event addressed to one
// account. Real-time delivery is layered on top and is best-effort; the row
// here is what guarantees the recipient eventually sees it. Only IsRead is
// ever mutated after creation.
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// ActorID is the seller or admin the event originates from.
	ActorID     uint `gorm:"index" json:"actor_id"`
	RecipientID uint `gorm:"index;not null" json:"recipient_id"`
	OrderRef    uint `gorm:"index" json:"order_ref"`

	// ProductIDs holds the affected products as a JSON array.
	ProductIDs []uint `gorm:"serializer:json" json:"product_ids"`

	Message string `gorm:"type:text;not null" json:"message"`
	IsRead  bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Order Order `gorm:"foreignKey:OrderRef" json:"order"`
}
