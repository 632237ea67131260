package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

// PostsComments owns comment rows and their joins to posts. Comments only
// exist attached to a post, so there is no standalone comment service.
type PostsComments struct {
	db *gorm.DB
}

// NewPostsComments creates a PostsComments service.
func NewPostsComments(db *gorm.DB) *PostsComments {
	return &PostsComments{db: db}
}

// Create attaches a new comment to a post. The comment and the join row are
// written in one transaction.
func (s *PostsComments) Create(postID, userID uint, body string) (*models.Comment, error) {
	var count int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPostNotFound
	}

	comment := models.Comment{UserID: userID, Body: body}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Create(&models.PostComment{PostID: postID, CommentID: comment.ID}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetPostComments returns a post's comments with their authors preloaded.
// A perPage of zero or less disables paging and returns every comment.
func (s *PostsComments) GetPostComments(postID uint, page, perPage int) (int64, []models.Comment, error) {
	var joins []models.PostComment
	if err := s.db.Where("post_id = ?", postID).Find(&joins).Error; err != nil {
		return 0, nil, err
	}
	if len(joins) == 0 {
		return 0, nil, nil
	}
	ids := make([]uint, 0, len(joins))
	for _, join := range joins {
		ids = append(ids, join.CommentID)
	}

	query := s.db.Preload("User").Where("id IN ?", ids).Order("id")
	if perPage > 0 {
		query = query.Offset(page * perPage).Limit(perPage)
	}
	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return 0, nil, err
	}
	return int64(len(ids)), comments, nil
}

// Delete removes a comment from a post. Only the comment's author or an
// admin may delete it. The join row and the comment go in one transaction.
func (s *PostsComments) Delete(postID, commentID, actingUserID uint, admin bool) error {
	var join models.PostComment
	err := s.db.Where("post_id = ? AND comment_id = ?", postID, commentID).First(&join).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if !admin && comment.UserID != actingUserID {
		return ErrUnauthorized
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ? AND comment_id = ?", postID, commentID).Delete(&models.PostComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, commentID).Error
	})
}
