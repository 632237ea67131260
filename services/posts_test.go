package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

type postsFixture struct {
	db            *gorm.DB
	posts         *Posts
	tags          *Tags
	categories    *Categories
	postsComments *PostsComments
	user          models.User
	author        *models.Author
	category      *models.Category
}

func newPostsFixture(t *testing.T) *postsFixture {
	t.Helper()
	db := newTestDB(t)

	user := models.User{Login: "writer", Email: "writer@example.com", PasswordHash: "x", IsActivated: true}
	require.NoError(t, db.Create(&user).Error)

	author, err := NewAuthors(db).Create(user.ID, "covers distributed systems")
	require.NoError(t, err)

	categories := NewCategories(db)
	category, err := categories.Create("general", nil)
	require.NoError(t, err)

	tags := NewTags(db)
	postsComments := NewPostsComments(db)
	return &postsFixture{
		db:            db,
		posts:         NewPosts(db, tags, categories, postsComments),
		tags:          tags,
		categories:    categories,
		postsComments: postsComments,
		user:          user,
		author:        author,
		category:      category,
	}
}

func (f *postsFixture) newPost(t *testing.T, title string, tagIDs []uint) *models.Post {
	t.Helper()
	post, err := f.posts.Create(PostInput{
		Title:      title,
		Body:       "body of " + title,
		AuthorID:   f.author.ID,
		CategoryID: f.category.ID,
		TagIDs:     tagIDs,
	})
	require.NoError(t, err)
	return post
}

func TestPostsCreateWithTags(t *testing.T) {
	f := newPostsFixture(t)

	golang, err := f.tags.Create("golang")
	require.NoError(t, err)
	storage, err := f.tags.Create("storage")
	require.NoError(t, err)

	post := f.newPost(t, "hello", []uint{golang.ID, storage.ID, golang.ID})

	var joins int64
	require.NoError(t, f.db.Model(&models.PostTag{}).Where("post_id = ?", post.ID).Count(&joins).Error)
	assert.Equal(t, int64(2), joins, "duplicate tag ids collapse to one join row")

	detail, err := f.posts.GetOne(post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tags, 2)
	assert.Equal(t, "golang", detail.Tags[0].Title)
	require.Len(t, detail.Categories, 1)
	assert.Equal(t, f.category.ID, detail.Categories[0].ID)
}

func TestPostsCreateUnknownTag(t *testing.T) {
	f := newPostsFixture(t)

	_, err := f.posts.Create(PostInput{
		Title:      "hello",
		Body:       "body",
		AuthorID:   f.author.ID,
		CategoryID: f.category.ID,
		TagIDs:     []uint{77},
	})
	assert.ErrorIs(t, err, ErrTagNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPostsGetAllFiltersByTitle(t *testing.T) {
	f := newPostsFixture(t)
	f.newPost(t, "raft explained", nil)
	f.newPost(t, "paxos explained", nil)
	f.newPost(t, "gossip protocols", nil)

	total, page, err := f.posts.GetAll(PostFilter{Title: "explained"}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 2)

	total, page, err = f.posts.GetAll(PostFilter{}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
}

func TestPostsGetAllFiltersByTag(t *testing.T) {
	f := newPostsFixture(t)
	tag, err := f.tags.Create("golang")
	require.NoError(t, err)
	tagged := f.newPost(t, "tagged", []uint{tag.ID})
	f.newPost(t, "untagged", nil)

	total, page, err := f.posts.GetAll(PostFilter{TagIDs: []uint{tag.ID}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, tagged.ID, page[0].ID)
	require.Len(t, page[0].Tags, 1)
}

func TestPostsUpdateReplacesFields(t *testing.T) {
	f := newPostsFixture(t)
	post := f.newPost(t, "before", nil)

	updated, err := f.posts.Update(post.ID, PostInput{
		Title:      "after",
		Body:       "new body",
		AuthorID:   f.author.ID,
		CategoryID: f.category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "new body", updated.Body)

	_, err = f.posts.Update(999, PostInput{Title: "x", Body: "y", AuthorID: f.author.ID, CategoryID: f.category.ID})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostsDeleteCascadesJoinsAndComments(t *testing.T) {
	f := newPostsFixture(t)
	tag, err := f.tags.Create("golang")
	require.NoError(t, err)
	post := f.newPost(t, "doomed", []uint{tag.ID})

	comment, err := f.postsComments.Create(post.ID, f.user.ID, "nice one")
	require.NoError(t, err)

	require.NoError(t, f.posts.Delete(post.ID))

	_, err = f.posts.GetOne(post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.PostTag{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// the tag registry itself is untouched
	_, err = f.tags.GetOne(tag.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.posts.Delete(post.ID), ErrPostNotFound)
}
