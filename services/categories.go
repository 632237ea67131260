package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

// maxCategoryDepth caps ancestor-chain walks so a damaged tree can never
// send a request into an unbounded loop.
const maxCategoryDepth = 10

// Categories is the registry for the self-referential category tree.
type Categories struct {
	db *gorm.DB
}

// NewCategories creates a Categories service.
func NewCategories(db *gorm.DB) *Categories {
	return &Categories{db: db}
}

// Create inserts a category after checking that the declared parent exists.
func (s *Categories) Create(description string, parentID *uint) (*models.Category, error) {
	if parentID != nil {
		if err := s.exists(*parentID); err != nil {
			return nil, err
		}
	}

	category := models.Category{Description: description, ParentID: parentID}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Update edits a category. A parent assignment that would make the node
// its own ancestor is rejected.
func (s *Categories) Update(id uint, description string, parentID *uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if parentID != nil {
		if err := s.exists(*parentID); err != nil {
			return nil, err
		}
		cycle, err := s.wouldCycle(id, *parentID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, BadRequest("parent assignment would create a category cycle")
		}
	}

	category.Description = description
	category.ParentID = parentID
	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetAll returns a page of categories with the overall total.
func (s *Categories) GetAll(page, perPage int) (int64, []models.Category, error) {
	var total int64
	var categories []models.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Order("id").Offset(page * perPage).Limit(perPage).Find(&categories).Error
	})
	return total, categories, err
}

// GetOne resolves the category's full ancestor chain, ordered from the
// requested leaf up to the root, truncated at maxCategoryDepth.
func (s *Categories) GetOne(id uint) ([]models.Category, error) {
	chain := make([]models.Category, 0, 4)
	current := id
	for depth := 0; depth < maxCategoryDepth; depth++ {
		var category models.Category
		if err := s.db.First(&category, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if depth == 0 {
					return nil, ErrCategoryNotFound
				}
				// dangling parent reference, stop at what we have
				break
			}
			return nil, err
		}
		chain = append(chain, category)
		if category.ParentID == nil {
			break
		}
		current = *category.ParentID
	}
	return chain, nil
}

// Delete removes a category by id.
func (s *Categories) Delete(id uint) error {
	res := s.db.Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *Categories) exists(id uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// wouldCycle reports whether assigning parentID as the parent of id would
// make id an ancestor of itself. The walk shares the read-side depth cap.
func (s *Categories) wouldCycle(id, parentID uint) (bool, error) {
	current := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current == id {
			return true, nil
		}
		var category models.Category
		if err := s.db.First(&category, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if category.ParentID == nil {
			return false, nil
		}
		current = *category.ParentID
	}
	return false, nil
}
