package models

type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;not null;unique" json:"name"`
	Status string `gorm:"default:'Active';size:20" json:"status"`
}
