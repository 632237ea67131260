package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tabasaranec/blogapi/config"
	"github.com/tabasaranec/blogapi/models"
	"github.com/tabasaranec/blogapi/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noopMailer struct{}

func (noopMailer) SendActivationMail(to, link string) error { return nil }

func newRegistrationRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	config.SetForTesting(config.AppConfig{
		JWTAccessSecret:      "test-access-secret",
		JWTRefreshSecret:     "test-refresh-secret",
		JWTAccessExpiresMin:  30,
		JWTRefreshExpiresHrs: 720,
		APIURL:               "http://api.example.com",
		StaticDir:            t.TempDir(),
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Token{}, &models.Author{}))

	users := services.NewUsers(db, services.NewTokens(db), noopMailer{})
	r := gin.New()
	r.POST("/auth/registration", NewUsersController(users).Register)
	return r, db
}

func registrationForm(t *testing.T, login string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("login", login))
	require.NoError(t, w.WriteField("email", login+"@example.com"))
	require.NoError(t, w.WriteField("password", "secret123"))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png bytes"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func avatarDirEntries(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(config.Get().StaticDir, "images", "avatars"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestRegisterStoresAvatar(t *testing.T) {
	r, _ := newRegistrationRouter(t)

	body, contentType := registrationForm(t, "casey")
	req := httptest.NewRequest("POST", "/auth/registration", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, avatarDirEntries(t), 1)
}

func TestRegisterFailureLeavesNoAvatarBehind(t *testing.T) {
	r, db := newRegistrationRouter(t)
	taken := models.User{Login: "jordan", Email: "jordan@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&taken).Error)

	body, contentType := registrationForm(t, "jordan")
	req := httptest.NewRequest("POST", "/auth/registration", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, avatarDirEntries(t))
}
