package main

import (
	"github.com/tabasaranec/blogapi/config"
	"github.com/tabasaranec/blogapi/models"
	"github.com/tabasaranec/blogapi/routes"
	"github.com/tabasaranec/blogapi/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
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
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
