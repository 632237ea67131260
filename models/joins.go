package models

// PostTag associates a post with a tag.
type PostTag struct {
	ID     uint `gorm:"primaryKey"`
	PostID uint `gorm:"index:idx_post_tag,unique;not null"`
	TagID  uint `gorm:"index:idx_post_tag,unique;not null"`
}

// PostComment associates a post with a comment. A comment belongs to
// exactly one post.
type PostComment struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"index;not null"`
	CommentID uint `gorm:"uniqueIndex;not null"`
}

// PostDraft associates a post with one of its drafts.
type PostDraft struct {
	ID      uint `gorm:"primaryKey"`
	PostID  uint `gorm:"index:idx_post_draft,unique;not null"`
	DraftID uint `gorm:"index:idx_post_draft,unique;not null"`
}
