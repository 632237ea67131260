package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

// Drafts manages draft rows themselves. Linking drafts to posts and the
// belongs checks live in PostsDrafts.
type Drafts struct {
	db *gorm.DB
}

// NewDrafts creates a Drafts service.
func NewDrafts(db *gorm.DB) *Drafts {
	return &Drafts{db: db}
}

// DraftInput carries the editable draft fields.
type DraftInput struct {
	Title      string
	Body       string
	AuthorID   uint
	CategoryID uint
	MainImg    string
	OtherImgs  []string
}

// Update replaces the draft's editable fields.
func (s *Drafts) Update(id uint, in DraftInput) (*models.Draft, error) {
	draft, err := s.GetOne(id)
	if err != nil {
		return nil, err
	}

	draft.Title = in.Title
	draft.Body = in.Body
	draft.AuthorID = in.AuthorID
	draft.CategoryID = in.CategoryID
	draft.MainImg = in.MainImg
	draft.OtherImgs = in.OtherImgs
	if err := s.db.Save(draft).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

// GetOne looks up a draft by id.
func (s *Drafts) GetOne(id uint) (*models.Draft, error) {
	var draft models.Draft
	if err := s.db.First(&draft, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// GetDrafts returns a page of the given drafts restricted to one author,
// with the total restricted the same way.
func (s *Drafts) GetDrafts(ids []uint, authorID uint, page, perPage int) (int64, []models.Draft, error) {
	if len(ids) == 0 {
		return 0, nil, nil
	}

	var total int64
	var drafts []models.Draft
	err := s.db.Transaction(func(tx *gorm.DB) error {
		scope := tx.Where("id IN ? AND author_id = ?", ids, authorID)
		if err := scope.Model(&models.Draft{}).Count(&total).Error; err != nil {
			return err
		}
		return scope.Order("id").Offset(page * perPage).Limit(perPage).Find(&drafts).Error
	})
	return total, drafts, err
}
