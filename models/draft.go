package models

import "time"

// Draft holds the editable fields of a future post revision. It becomes
// canonical content only when published onto the linked post.
type Draft struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	AuthorID   uint       `gorm:"index;not null" json:"authorId"`
	CategoryID uint       `gorm:"index;not null" json:"categoryId"`
	MainImg    string     `gorm:"size:512" json:"mainImg"`
	OtherImgs  StringList `gorm:"type:text" json:"otherImgs"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
