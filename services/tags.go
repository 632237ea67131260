package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

// Tags is the registry for flat post labels.
type Tags struct {
	db *gorm.DB
}

// NewTags creates a Tags service.
func NewTags(db *gorm.DB) *Tags {
	return &Tags{db: db}
}

// Create inserts a tag.
func (s *Tags) Create(title string) (*models.Tag, error) {
	tag := models.Tag{Title: title}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Update renames a tag.
func (s *Tags) Update(id uint, title string) (*models.Tag, error) {
	tag, err := s.GetOne(id)
	if err != nil {
		return nil, err
	}
	tag.Title = title
	if err := s.db.Save(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// GetAll returns a page of tags with the overall total.
func (s *Tags) GetAll(page, perPage int) (int64, []models.Tag, error) {
	var total int64
	var tags []models.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Tag{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Order("id").Offset(page * perPage).Limit(perPage).Find(&tags).Error
	})
	return total, tags, err
}

// GetTags is a batch lookup used to hydrate a post's tag list.
func (s *Tags) GetTags(ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetOne looks up a tag by id.
func (s *Tags) GetOne(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Delete removes a tag by id.
func (s *Tags) Delete(id uint) error {
	res := s.db.Delete(&models.Tag{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTagNotFound
	}
	return nil
}
