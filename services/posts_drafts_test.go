package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabasaranec/blogapi/models"
)

func newDraftsServices(f *postsFixture) (*Drafts, *PostsDrafts) {
	drafts := NewDrafts(f.db)
	return drafts, NewPostsDrafts(f.db, drafts)
}

func TestPostsDraftsPublishCopiesDraftOntoPost(t *testing.T) {
	f := newPostsFixture(t)
	_, postsDrafts := newDraftsServices(f)
	post := f.newPost(t, "v1", nil)

	other, err := f.categories.Create("deep dives", nil)
	require.NoError(t, err)

	draft, err := postsDrafts.Create(post.ID, DraftInput{
		Title:      "v2",
		Body:       "rewritten body",
		AuthorID:   f.author.ID,
		CategoryID: other.ID,
		MainImg:    "cover.png",
		OtherImgs:  []string{"a.png", "b.png"},
	})
	require.NoError(t, err)

	published, err := postsDrafts.Publish(post.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", published.Title)
	assert.Equal(t, "rewritten body", published.Body)
	assert.Equal(t, other.ID, published.CategoryID)
	assert.Equal(t, "cover.png", published.MainImg)
	assert.Equal(t, []string{"a.png", "b.png"}, []string(published.OtherImgs))
	assert.True(t, published.Published)
	assert.Equal(t, f.author.ID, published.AuthorID, "publishing never reassigns the author")

	// the draft survives and can be published again
	again, err := postsDrafts.GetOne(post.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", again.Title)
	_, err = postsDrafts.Publish(post.ID, draft.ID)
	assert.NoError(t, err)
}

func TestPostsDraftsBelongsCheck(t *testing.T) {
	f := newPostsFixture(t)
	_, postsDrafts := newDraftsServices(f)
	postA := f.newPost(t, "a", nil)
	postB := f.newPost(t, "b", nil)

	draft, err := postsDrafts.Create(postA.ID, DraftInput{
		Title: "draft of a", Body: "x", AuthorID: f.author.ID, CategoryID: f.category.ID,
	})
	require.NoError(t, err)

	_, err = postsDrafts.GetOne(postB.ID, draft.ID)
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = postsDrafts.Publish(postB.ID, draft.ID)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.ErrorIs(t, postsDrafts.Delete(postB.ID, draft.ID), ErrBadRequest)
}

func TestPostsDraftsCreateUnknownPost(t *testing.T) {
	f := newPostsFixture(t)
	_, postsDrafts := newDraftsServices(f)

	_, err := postsDrafts.Create(404, DraftInput{
		Title: "x", Body: "y", AuthorID: f.author.ID, CategoryID: f.category.ID,
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostsDraftsDeleteRemovesDraftAndJoin(t *testing.T) {
	f := newPostsFixture(t)
	drafts, postsDrafts := newDraftsServices(f)
	post := f.newPost(t, "a", nil)

	draft, err := postsDrafts.Create(post.ID, DraftInput{
		Title: "draft", Body: "x", AuthorID: f.author.ID, CategoryID: f.category.ID,
	})
	require.NoError(t, err)

	require.NoError(t, postsDrafts.Delete(post.ID, draft.ID))

	_, err = drafts.GetOne(draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	var count int64
	require.NoError(t, f.db.Model(&models.PostDraft{}).Where("draft_id = ?", draft.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPostsDraftsListIsAuthorScoped(t *testing.T) {
	f := newPostsFixture(t)
	_, postsDrafts := newDraftsServices(f)
	post := f.newPost(t, "a", nil)

	for _, title := range []string{"one", "two", "three"} {
		_, err := postsDrafts.Create(post.ID, DraftInput{
			Title: title, Body: "x", AuthorID: f.author.ID, CategoryID: f.category.ID,
		})
		require.NoError(t, err)
	}

	total, page, err := postsDrafts.GetPostDrafts(post.ID, f.author.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	total, page, err = postsDrafts.GetPostDrafts(post.ID, f.author.ID+1, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, page)
}
