package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

// Authors is the registry of writing profiles. A user owns at most one
// author row; Create upserts on the owning user id.
type Authors struct {
	db *gorm.DB
}

// NewAuthors creates an Authors service.
func NewAuthors(db *gorm.DB) *Authors {
	return &Authors{db: db}
}

// Create registers an author profile for a user, or updates the existing
// profile in place when one is already present.
func (s *Authors) Create(userID uint, description string) (*models.Author, error) {
	var author models.Author
	err := s.db.Where("user_id = ?", userID).First(&author).Error
	if err == nil {
		author.Description = description
		if err := s.db.Save(&author).Error; err != nil {
			return nil, err
		}
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	author = models.Author{UserID: userID, Description: description}
	if err := s.db.Create(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// Update edits an author profile. The acting user must resolve to the
// author being updated.
func (s *Authors) Update(id, actingUserID uint, description string) (*models.Author, error) {
	author, err := s.GetByUserID(actingUserID)
	if err != nil {
		if errors.Is(err, ErrAuthorNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if author.ID != id {
		return nil, ErrUnauthorized
	}

	author.Description = description
	if err := s.db.Save(author).Error; err != nil {
		return nil, err
	}
	return author, nil
}

// GetAll returns a page of authors with the overall total.
func (s *Authors) GetAll(page, perPage int) (int64, []models.Author, error) {
	var total int64
	var authors []models.Author
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Author{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Preload("User").Order("id").Offset(page * perPage).Limit(perPage).Find(&authors).Error
	})
	return total, authors, err
}

// GetOne looks up an author by id.
func (s *Authors) GetOne(id uint) (*models.Author, error) {
	var author models.Author
	if err := s.db.Preload("User").First(&author, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &author, nil
}

// GetByUserID resolves the author profile owned by a user.
func (s *Authors) GetByUserID(userID uint) (*models.Author, error) {
	var author models.Author
	if err := s.db.Where("user_id = ?", userID).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &author, nil
}

// DeleteUserAuthors removes all author rows owned by a user. Used while
// deleting the account itself.
func (s *Authors) DeleteUserAuthors(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Author{}).Error
}

// Delete removes an author by id.
func (s *Authors) Delete(id uint) error {
	res := s.db.Delete(&models.Author{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAuthorNotFound
	}
	return nil
}
