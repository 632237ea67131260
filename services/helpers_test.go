package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tabasaranec/blogapi/config"
	"github.com/tabasaranec/blogapi/models"
)

func init() {
	config.SetForTesting(config.AppConfig{
		JWTAccessSecret:      "test-access-secret",
		JWTRefreshSecret:     "test-refresh-secret",
		JWTAccessExpiresMin:  30,
		JWTRefreshExpiresHrs: 720,
		APIURL:               "http://localhost:5000",
		AdminEmails:          []string{"admin@example.com"},
	})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Author{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Draft{},
		&models.Comment{},
		&models.PostTag{},
		&models.PostComment{},
		&models.PostDraft{},
	))
	return db
}
