package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

// ErrDraftNotLinked covers every operation on a draft that is not joined
// to the given post.
var ErrDraftNotLinked = BadRequest("draft is not linked to this post")

// PostsDrafts manages the post to draft association and the publish step that
// promotes a draft's fields onto its live post.
type PostsDrafts struct {
	db     *gorm.DB
	drafts *Drafts
}

// NewPostsDrafts creates a PostsDrafts service.
func NewPostsDrafts(db *gorm.DB, drafts *Drafts) *PostsDrafts {
	return &PostsDrafts{db: db, drafts: drafts}
}

// Create stages a draft for a post: the draft row and its join row are
// written in one transaction so neither can be orphaned.
func (s *PostsDrafts) Create(postID uint, in DraftInput) (*models.Draft, error) {
	var count int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	draft := models.Draft{
		Title:      in.Title,
		Body:       in.Body,
		AuthorID:   in.AuthorID,
		CategoryID: in.CategoryID,
		MainImg:    in.MainImg,
		OtherImgs:  in.OtherImgs,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&draft).Error; err != nil {
			return err
		}
		return tx.Create(&models.PostDraft{PostID: postID, DraftID: draft.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// GetPostDrafts lists a post's drafts restricted to one author.
func (s *PostsDrafts) GetPostDrafts(postID, authorID uint, page, perPage int) (int64, []models.Draft, error) {
	var joins []models.PostDraft
	if err := s.db.Where("post_id = ?", postID).Find(&joins).Error; err != nil {
		return 0, nil, err
	}
	ids := make([]uint, 0, len(joins))
	for _, join := range joins {
		ids = append(ids, join.DraftID)
	}
	return s.drafts.GetDrafts(ids, authorID, page, perPage)
}

// GetOne fetches a draft after verifying it belongs to the post.
func (s *PostsDrafts) GetOne(postID, draftID uint) (*models.Draft, error) {
	if err := s.checkBelongs(postID, draftID); err != nil {
		return nil, err
	}
	return s.drafts.GetOne(draftID)
}

// Update edits a draft after verifying it belongs to the post.
func (s *PostsDrafts) Update(postID, draftID uint, in DraftInput) (*models.Draft, error) {
	if err := s.checkBelongs(postID, draftID); err != nil {
		return nil, err
	}
	return s.drafts.Update(draftID, in)
}

// Delete unlinks and removes a draft in one transaction.
func (s *PostsDrafts) Delete(postID, draftID uint) error {
	if err := s.checkBelongs(postID, draftID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ? AND draft_id = ?", postID, draftID).Delete(&models.PostDraft{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Draft{}, draftID).Error
	})
}

// Publish overwrites the live post's editable fields with the draft's.
// The draft row stays in place and can be published again.
func (s *PostsDrafts) Publish(postID, draftID uint) (*models.Post, error) {
	if err := s.checkBelongs(postID, draftID); err != nil {
		return nil, err
	}

	draft, err := s.drafts.GetOne(draftID)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil, ErrDraftNotLinked
		}
		return nil, err
	}

	var post models.Post
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		post.Title = draft.Title
		post.Body = draft.Body
		post.CategoryID = draft.CategoryID
		post.MainImg = draft.MainImg
		post.OtherImgs = draft.OtherImgs
		post.Published = true
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostsDrafts) checkBelongs(postID, draftID uint) error {
	var count int64
	err := s.db.Model(&models.PostDraft{}).
		Where("post_id = ? AND draft_id = ?", postID, draftID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrDraftNotLinked
	}
	return nil
}
