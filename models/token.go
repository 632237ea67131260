package models

import "time"

// Token stores the single active refresh token per user. Issuing a new
// pair overwrites the row, which invalidates the previous session.
type Token struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"userId"`
	RefreshToken string    `gorm:"size:512;uniqueIndex;not null" json:"refreshToken"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
