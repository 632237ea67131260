package services

import (
	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

// PostsTags manages the post to tag association after a post exists.
type PostsTags struct {
	db   *gorm.DB
	tags *Tags
}

// NewPostsTags creates a PostsTags service.
func NewPostsTags(db *gorm.DB, tags *Tags) *PostsTags {
	return &PostsTags{db: db, tags: tags}
}

// Create links an existing tag to an existing post. Relinking the same pair
// is a no-op.
func (s *PostsTags) Create(postID, tagID uint) (*models.Tag, error) {
	var count int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	tag, err := s.tags.GetOne(tagID)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.PostTag{}).Where("post_id = ? AND tag_id = ?", postID, tagID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing == 0 {
		if err := s.db.Create(&models.PostTag{PostID: postID, TagID: tagID}).Error; err != nil {
			return nil, err
		}
	}
	return tag, nil
}

// GetPostTags lists the tags linked to a post.
func (s *PostsTags) GetPostTags(postID uint) ([]models.Tag, error) {
	var joins []models.PostTag
	if err := s.db.Where("post_id = ?", postID).Find(&joins).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(joins))
	for _, join := range joins {
		ids = append(ids, join.TagID)
	}
	return s.tags.GetTags(ids)
}

// Delete unlinks a tag from a post. The tag itself survives.
func (s *PostsTags) Delete(postID, tagID uint) error {
	res := s.db.Where("post_id = ? AND tag_id = ?", postID, tagID).Delete(&models.PostTag{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTagNotFound
	}
	return nil
}
