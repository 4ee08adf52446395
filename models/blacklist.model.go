package models

import "time"

// BlacklistedToken records locally-issued JWTs revoked by logout. The auth
// middleware rejects any local token found here.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null;size:512" json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
