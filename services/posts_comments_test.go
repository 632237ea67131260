package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabasaranec/blogapi/models"
)

func TestPostsCommentsCreateAndList(t *testing.T) {
	f := newPostsFixture(t)
	post := f.newPost(t, "discussed", nil)

	comment, err := f.postsComments.Create(post.ID, f.user.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, f.user.Login, comment.User.Login, "comment comes back with its author")

	_, err = f.postsComments.Create(999, f.user.ID, "into the void")
	assert.ErrorIs(t, err, ErrPostNotFound)

	total, comments, err := f.postsComments.GetPostComments(post.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, comments, 1)
	assert.Equal(t, "first!", comments[0].Body)
}

func TestPostsCommentsListUnpagedReturnsAll(t *testing.T) {
	f := newPostsFixture(t)
	post := f.newPost(t, "busy", nil)

	for i := 0; i < 15; i++ {
		_, err := f.postsComments.Create(post.ID, f.user.ID, "comment")
		require.NoError(t, err)
	}

	total, comments, err := f.postsComments.GetPostComments(post.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, comments, 15)

	_, page, err := f.postsComments.GetPostComments(post.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page, 5)
}

func TestPostsCommentsDeleteAuthorization(t *testing.T) {
	f := newPostsFixture(t)
	post := f.newPost(t, "moderated", nil)

	other := models.User{Login: "other", Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(&other).Error)

	comment, err := f.postsComments.Create(post.ID, f.user.ID, "mine")
	require.NoError(t, err)

	err = f.postsComments.Delete(post.ID, comment.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.postsComments.Delete(post.ID, comment.ID, f.user.ID, false))

	var count int64
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPostsCommentsDeleteByAdmin(t *testing.T) {
	f := newPostsFixture(t)
	post := f.newPost(t, "moderated", nil)

	comment, err := f.postsComments.Create(post.ID, f.user.ID, "gone soon")
	require.NoError(t, err)

	admin := models.User{Login: "admin", Email: "a@example.com", PasswordHash: "x", Admin: true}
	require.NoError(t, f.db.Create(&admin).Error)

	require.NoError(t, f.postsComments.Delete(post.ID, comment.ID, admin.ID, true))

	err = f.postsComments.Delete(post.ID, comment.ID, admin.ID, true)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
