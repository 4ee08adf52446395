package models

import (
	"time"
)

// Message is an append-only chat record between two accounts. Conversation
// views group by partner and order by timestamp; nothing else is guaranteed.
type Message struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	SenderID   uint `gorm:"index;not null" json:"sender_id"`
	ReceiverID uint `gorm:"index;not null" json:"receiver_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `json:"created_at"`

	Sender   Account `gorm:"foreignKey:SenderID" json:"sender"`
	Receiver Account `gorm:"foreignKey:ReceiverID" json:"receiver"`
}
