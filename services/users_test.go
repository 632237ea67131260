package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/models"
)

type stubMailer struct {
	fail bool
	sent []string
}

func (m *stubMailer) SendActivationMail(to, link string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func newUsersService(t *testing.T) (*Users, *gorm.DB, *stubMailer) {
	t.Helper()
	db := newTestDB(t)
	mailer := &stubMailer{}
	users := NewUsers(db, NewTokens(db), mailer)
	return users, db, mailer
}

func registerTestUser(t *testing.T, users *Users, login string) *AuthResult {
	t.Helper()
	result, err := users.Registration(RegistrationInput{
		FirstName: "Jordan",
		LastName:  "Lee",
		Login:     login,
		Email:     login + "@example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)
	return result
}

func TestRegistrationCreatesInactiveAccount(t *testing.T) {
	users, db, mailer := newUsersService(t)

	result := registerTestUser(t, users, "jordan")

	assert.False(t, result.User.IsActivated)
	assert.NotEmpty(t, result.User.ActivateLink)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, []string{"jordan@example.com"}, mailer.sent)

	var token models.Token
	require.NoError(t, db.Where("user_id = ?", result.User.ID).First(&token).Error)
	assert.Equal(t, result.Tokens.RefreshToken, token.RefreshToken)
}

func TestRegistrationDuplicateLogin(t *testing.T) {
	users, _, _ := newUsersService(t)

	registerTestUser(t, users, "jordan")
	_, err := users.Registration(RegistrationInput{
		Login:    "jordan",
		Email:    "other@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRegistrationMailFailureAborts(t *testing.T) {
	users, db, mailer := newUsersService(t)
	mailer.fail = true

	_, err := users.Registration(RegistrationInput{
		Login:    "jordan",
		Email:    "jordan@example.com",
		Password: "secret123",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "no account should survive a failed activation mail")
}

func TestRegistrationAdminEmail(t *testing.T) {
	users, _, _ := newUsersService(t)

	result, err := users.Registration(RegistrationInput{
		Login:    "boss",
		Email:    "admin@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.True(t, result.User.Admin)
}

func TestActivateIsIdempotent(t *testing.T) {
	users, _, _ := newUsersService(t)
	result := registerTestUser(t, users, "jordan")

	activated, err := users.Activate(result.User.ActivateLink)
	require.NoError(t, err)
	require.NotNil(t, activated)
	assert.True(t, activated.IsActivated)

	again, err := users.Activate(result.User.ActivateLink)
	require.NoError(t, err)
	assert.Nil(t, again, "a second visit should be a no-op")
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	users, _, _ := newUsersService(t)
	registerTestUser(t, users, "jordan")

	_, wrongPassword := users.Login("jordan", "not-the-password")
	_, unknownLogin := users.Login("nobody", "secret123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownLogin)
	assert.ErrorIs(t, wrongPassword, ErrBadRequest)
	assert.ErrorIs(t, unknownLogin, ErrBadRequest)
	assert.Equal(t, wrongPassword.Error(), unknownLogin.Error())
}

func TestRefreshRotatedTokenIsRejected(t *testing.T) {
	users, db, _ := newUsersService(t)
	result := registerTestUser(t, users, "jordan")

	// simulate a later login overwriting the stored row
	require.NoError(t, NewTokens(db).Update(result.User.ID, "a-newer-token"))

	_, err := users.Refresh(result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshGarbageToken(t *testing.T) {
	users, _, _ := newUsersService(t)

	_, err := users.Refresh("")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = users.Refresh("not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshReissuesAndStoresPair(t *testing.T) {
	users, db, _ := newUsersService(t)
	result := registerTestUser(t, users, "jordan")

	refreshed, err := users.Refresh(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, refreshed.User.ID)

	stored, err := NewTokens(db).GetByUserID(result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, refreshed.Tokens.RefreshToken, stored.RefreshToken)
}

func TestUpdateChecksCurrentPassword(t *testing.T) {
	users, _, _ := newUsersService(t)
	result := registerTestUser(t, users, "jordan")

	_, err := users.Update(result.User.ID, UpdateUserInput{
		Login:    "jordan",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrBadRequest)

	updated, err := users.Update(result.User.ID, UpdateUserInput{
		FirstName: "Sam",
		LastName:  "Lee",
		Login:     "sam",
		Password:  "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.FirstName)
	assert.Equal(t, "sam", updated.Login)
}

func TestPartialUpdateWhitelistsFields(t *testing.T) {
	users, _, _ := newUsersService(t)
	result := registerTestUser(t, users, "jordan")

	updated, err := users.PartialUpdate(result.User.ID, map[string]interface{}{
		"firstName": "Sam",
		"admin":     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.FirstName)
	assert.False(t, updated.Admin, "non-whitelisted fields must be ignored")

	_, err = users.PartialUpdate(result.User.ID, map[string]interface{}{"admin": true})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestUpdateRejectsTakenLogin(t *testing.T) {
	users, _, _ := newUsersService(t)
	registerTestUser(t, users, "jordan")
	second := registerTestUser(t, users, "casey")

	_, err := users.Update(second.User.ID, UpdateUserInput{
		Login:    "jordan",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrBadRequest)

	// keeping your own login is not a conflict
	_, err = users.Update(second.User.ID, UpdateUserInput{
		Login:    "casey",
		Password: "secret123",
	})
	assert.NoError(t, err)
}

func TestPartialUpdateRejectsTakenLogin(t *testing.T) {
	users, _, _ := newUsersService(t)
	registerTestUser(t, users, "jordan")
	second := registerTestUser(t, users, "casey")

	_, err := users.PartialUpdate(second.User.ID, map[string]interface{}{"login": "jordan"})
	assert.ErrorIs(t, err, ErrBadRequest)

	updated, err := users.PartialUpdate(second.User.ID, map[string]interface{}{"login": "casey2"})
	require.NoError(t, err)
	assert.Equal(t, "casey2", updated.Login)
}

func TestDeleteCascadesAuthorAndToken(t *testing.T) {
	users, db, _ := newUsersService(t)
	result := registerTestUser(t, users, "jordan")

	authors := NewAuthors(db)
	_, err := authors.Create(result.User.ID, "writes about storage engines")
	require.NoError(t, err)

	require.NoError(t, users.Delete(result.User.ID))

	_, err = users.GetByID(result.User.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = authors.GetByUserID(result.User.ID)
	assert.ErrorIs(t, err, ErrAuthorNotFound)
	_, err = NewTokens(db).GetByUserID(result.User.ID)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	assert.ErrorIs(t, users.Delete(result.User.ID), ErrUserNotFound)
}
