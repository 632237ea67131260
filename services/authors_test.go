package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabasaranec/blogapi/models"
)

func seedUser(t *testing.T, authors *Authors, login string) models.User {
	t.Helper()
	user := models.User{Login: login, Email: login + "@example.com", PasswordHash: "x", IsActivated: true}
	require.NoError(t, authors.db.Create(&user).Error)
	return user
}

func TestAuthorCreateUpsertsPerUser(t *testing.T) {
	db := newTestDB(t)
	authors := NewAuthors(db)
	user := seedUser(t, authors, "jordan")

	first, err := authors.Create(user.ID, "writes about databases")
	require.NoError(t, err)

	second, err := authors.Create(user.ID, "writes about distributed systems")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "writes about distributed systems", second.Description)

	var count int64
	require.NoError(t, db.Model(&models.Author{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthorUpdateRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	authors := NewAuthors(db)
	owner := seedUser(t, authors, "owner")
	other := seedUser(t, authors, "other")

	author, err := authors.Create(owner.ID, "original")
	require.NoError(t, err)

	_, err = authors.Update(author.ID, other.ID, "hijacked")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = authors.Create(other.ID, "someone else")
	require.NoError(t, err)
	_, err = authors.Update(author.ID, other.ID, "still not yours")
	assert.ErrorIs(t, err, ErrUnauthorized)

	updated, err := authors.Update(author.ID, owner.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Description)
}

func TestDeleteUserAuthorsRemovesProfile(t *testing.T) {
	db := newTestDB(t)
	authors := NewAuthors(db)
	user := seedUser(t, authors, "jordan")

	_, err := authors.Create(user.ID, "short lived")
	require.NoError(t, err)

	require.NoError(t, authors.DeleteUserAuthors(user.ID))

	_, err = authors.GetByUserID(user.ID)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}

func TestAuthorDeleteUnknown(t *testing.T) {
	db := newTestDB(t)
	authors := NewAuthors(db)

	err := authors.Delete(404)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
}
