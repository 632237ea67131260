package models

import "time"

// Post is a live article. Tags and comments hang off join rows, drafts are
// staged copies linked through PostDraft.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	AuthorID   uint       `gorm:"index;not null" json:"authorId"`
	CategoryID uint       `gorm:"index;not null" json:"categoryId"`
	MainImg    string     `gorm:"size:512" json:"mainImg"`
	OtherImgs  StringList `gorm:"type:text" json:"otherImgs"`
	Published  bool       `gorm:"default:false" json:"published"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Author     Author     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}
