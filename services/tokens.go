package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
	"github.com/tabasaranec/blogapi/utils"
)

// Tokens manages the single persisted refresh token per user. Creating a
// token for a user who already has one overwrites the stored value, which
// is what invalidates the previous session.
type Tokens struct {
	db *gorm.DB
}

// NewTokens creates a Tokens service.
func NewTokens(db *gorm.DB) *Tokens {
	return &Tokens{db: db}
}

// Generate issues a signed access/refresh pair embedding the user's claims.
func (s *Tokens) Generate(user models.User) (utils.TokenPair, error) {
	return utils.GenerateTokenPair(user.ID, user.Email, user.Admin, user.IsActivated)
}

// Create persists the refresh token for a user, rotating any existing row.
func (s *Tokens) Create(userID uint, refreshToken string) error {
	existing, err := s.GetByUserID(userID)
	if err == nil {
		// Tokens issued within the same second are byte-identical; a
		// no-op update would report zero rows on mysql.
		if existing.RefreshToken == refreshToken {
			return nil
		}
		return s.Update(userID, refreshToken)
	}
	if !errors.Is(err, ErrTokenNotFound) {
		return err
	}
	return s.db.Create(&models.Token{UserID: userID, RefreshToken: refreshToken}).Error
}

// GetByUserID looks up the stored token row for a user.
func (s *Tokens) GetByUserID(userID uint) (*models.Token, error) {
	var token models.Token
	if err := s.db.Where("user_id = ?", userID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// GetOne looks up a token row by its refresh token value. Used to verify
// that a presented refresh token is still the current one.
func (s *Tokens) GetOne(refreshToken string) (*models.Token, error) {
	var token models.Token
	if err := s.db.Where("refresh_token = ?", refreshToken).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Update replaces the stored refresh token value for a user.
func (s *Tokens) Update(userID uint, refreshToken string) error {
	res := s.db.Model(&models.Token{}).Where("user_id = ?", userID).Update("refresh_token", refreshToken)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// Delete removes a token row by refresh token value (logout).
func (s *Tokens) Delete(refreshToken string) error {
	res := s.db.Where("refresh_token = ?", refreshToken).Delete(&models.Token{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}
