package models

import "time"

// Category is a node in a self-referential tree. ParentID is nil for roots.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"size:255;not null" json:"description"`
	ParentID    *uint     `gorm:"index" json:"parentId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}
