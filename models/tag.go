package models

// Tag is a flat keyed label joined to posts through PostTag rows.
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:128;not null" json:"title"`
}
