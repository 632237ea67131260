package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
	"github.com/tabasaranec/blogapi/utils"
)

// Posts implements the live-article workflow: creation with tag
// association, full replace updates, hydrated reads and filtered listing.
type Posts struct {
	db            *gorm.DB
	tags          *Tags
	categories    *Categories
	postsComments *PostsComments
}

// NewPosts creates a Posts service.
func NewPosts(db *gorm.DB, tags *Tags, categories *Categories, postsComments *PostsComments) *Posts {
	return &Posts{db: db, tags: tags, categories: categories, postsComments: postsComments}
}

// PostInput carries the editable post fields. TagIDs must already be
// normalized to the canonical list form by the caller.
type PostInput struct {
	Title      string
	Body       string
	AuthorID   uint
	CategoryID uint
	MainImg    string
	OtherImgs  []string
	TagIDs     []uint
}

// PostDetail is a post hydrated with its associations.
type PostDetail struct {
	models.Post
	Tags       []models.Tag      `json:"tags"`
	Comments   []models.Comment  `json:"comments"`
	Categories []models.Category `json:"categories"`
}

// PostFilter is the declared filter surface of the post listing.
type PostFilter struct {
	CreatedAt   string
	CreatedAtGT string
	CreatedAtLT string
	Category    string
	Title       string
	Body        string
	TagIDs      []uint
	Sort        string
}

// Create persists the post and its tag join rows in one transaction. Every
// provided tag id must resolve to an existing tag.
func (s *Posts) Create(in PostInput) (*models.Post, error) {
	tagIDs := utils.UniqueUint(in.TagIDs)
	found, err := s.tags.GetTags(tagIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(tagIDs) {
		return nil, ErrTagNotFound
	}

	post := models.Post{
		Title:      in.Title,
		Body:       in.Body,
		AuthorID:   in.AuthorID,
		CategoryID: in.CategoryID,
		MainImg:    in.MainImg,
		OtherImgs:  in.OtherImgs,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&models.PostTag{PostID: post.ID, TagID: tagID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update is a full replace of the editable fields.
func (s *Posts) Update(id uint, in PostInput) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	post.Title = in.Title
	post.Body = in.Body
	post.AuthorID = in.AuthorID
	post.CategoryID = in.CategoryID
	post.MainImg = in.MainImg
	post.OtherImgs = in.OtherImgs
	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetOne hydrates a post with its author chain, tags, comments and
// category ancestors.
func (s *Posts) GetOne(id uint) (*PostDetail, error) {
	var post models.Post
	if err := s.db.Preload("Author.User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	tags, err := s.postTags(post.ID)
	if err != nil {
		return nil, err
	}

	_, comments, err := s.postsComments.GetPostComments(post.ID, 0, 0)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.GetOne(post.CategoryID)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	return &PostDetail{Post: post, Tags: tags, Comments: comments, Categories: categories}, nil
}

// GetAll returns a filtered page of posts with the overall filtered total.
// Listed posts carry their tags but not comments or category chains.
func (s *Posts) GetAll(filter PostFilter, page, perPage int) (int64, []PostDetail, error) {
	query := s.applyFilter(s.db.Model(&models.Post{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var posts []models.Post
	err := s.applyFilter(s.db.Model(&models.Post{}), filter).
		Preload("Author.User").
		Order(sortClause(filter.Sort)).
		Offset(page * perPage).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return 0, nil, err
	}

	details, err := s.attachTags(posts)
	if err != nil {
		return 0, nil, err
	}
	return total, details, nil
}

// Delete removes a post together with its tag and comment join rows and
// the joined comments themselves.
func (s *Posts) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}

		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostDraft{}).Error; err != nil {
			return err
		}

		var joins []models.PostComment
		if err := tx.Where("post_id = ?", id).Find(&joins).Error; err != nil {
			return err
		}
		if len(joins) == 0 {
			return nil
		}
		commentIDs := make([]uint, 0, len(joins))
		for _, join := range joins {
			commentIDs = append(commentIDs, join.CommentID)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostComment{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", commentIDs).Delete(&models.Comment{}).Error
	})
}

func (s *Posts) postTags(postID uint) ([]models.Tag, error) {
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

func (s *Posts) attachTags(posts []models.Post) ([]PostDetail, error) {
	details := make([]PostDetail, 0, len(posts))
	if len(posts) == 0 {
		return details, nil
	}

	postIDs := make([]uint, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}

	var joins []models.PostTag
	if err := s.db.Where("post_id IN ?", postIDs).Find(&joins).Error; err != nil {
		return nil, err
	}

	tagIDs := make([]uint, 0, len(joins))
	for _, join := range joins {
		tagIDs = append(tagIDs, join.TagID)
	}
	tags, err := s.tags.GetTags(utils.UniqueUint(tagIDs))
	if err != nil {
		return nil, err
	}
	tagByID := make(map[uint]models.Tag, len(tags))
	for _, tag := range tags {
		tagByID[tag.ID] = tag
	}

	tagsByPost := make(map[uint][]models.Tag, len(posts))
	for _, join := range joins {
		if tag, ok := tagByID[join.TagID]; ok {
			tagsByPost[join.PostID] = append(tagsByPost[join.PostID], tag)
		}
	}

	for _, post := range posts {
		details = append(details, PostDetail{Post: post, Tags: tagsByPost[post.ID]})
	}
	return details, nil
}

func (s *Posts) applyFilter(query *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.CreatedAt != "" {
		query = query.Where("DATE(posts.created_at) = ?", filter.CreatedAt)
	}
	if filter.CreatedAtGT != "" {
		query = query.Where("posts.created_at > ?", filter.CreatedAtGT)
	}
	if filter.CreatedAtLT != "" {
		query = query.Where("posts.created_at < ?", filter.CreatedAtLT)
	}
	if filter.Category != "" {
		query = query.Where("posts.category_id = ?", filter.Category)
	}
	if filter.Title != "" {
		query = query.Where("posts.title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.Body != "" {
		query = query.Where("posts.body LIKE ?", "%"+filter.Body+"%")
	}
	if len(filter.TagIDs) > 0 {
		query = query.Where("posts.id IN (SELECT post_id FROM post_tags WHERE tag_id IN ?)", filter.TagIDs)
	}
	return query
}

// sortClause whitelists sortable columns; a leading '-' means descending.
func sortClause(sort string) string {
	desc := false
	if len(sort) > 0 && sort[0] == '-' {
		desc = true
		sort = sort[1:]
	}
	switch sort {
	case "created_at", "title", "id":
	default:
		return "posts.created_at DESC"
	}
	if desc {
		return "posts." + sort + " DESC"
	}
	return "posts." + sort
}
