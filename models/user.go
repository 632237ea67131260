package models

import "time"

// User is a platform account. Passwords are stored as bcrypt hashes only.
// Accounts start out unactivated and are activated by visiting the
// activation link mailed at registration time.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Login        string    `gorm:"size:64;uniqueIndex;not null" json:"login"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:64;not null" json:"firstName"`
	LastName     string    `gorm:"size:64" json:"lastName"`
	Avatar       string    `gorm:"size:512" json:"avatar"`
	Admin        bool      `gorm:"default:false" json:"isAdmin"`
	IsActivated  bool      `gorm:"default:false" json:"isActivated"`
	ActivateLink string    `gorm:"size:64;index" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}
