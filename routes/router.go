package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tabasaranec/blogapi/config"
	"github.com/tabasaranec/blogapi/controllers"
	"github.com/tabasaranec/blogapi/middleware"
	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

// SetupRouter wires services, controllers and middlewares onto the engine.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.ClientURL != "" {
		corsCfg.AllowOrigins = []string{cfg.ClientURL}
	} else {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", cfg.StaticDir)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tokens := services.NewTokens(db)
	authors := services.NewAuthors(db)
	users := services.NewUsers(db, tokens, utils.NewSMTPMailer())
	categories := services.NewCategories(db)
	tags := services.NewTags(db)
	postsComments := services.NewPostsComments(db)
	posts := services.NewPosts(db, tags, categories, postsComments)
	postsTags := services.NewPostsTags(db, tags)
	drafts := services.NewDrafts(db)
	postsDrafts := services.NewPostsDrafts(db, drafts)

	authController := controllers.NewAuthController(users)
	usersController := controllers.NewUsersController(users)
	authorsController := controllers.NewAuthorsController(authors)
	categoriesController := controllers.NewCategoriesController(categories)
	tagsController := controllers.NewTagsController(tags)
	postsController := controllers.NewPostsController(posts, postsTags, postsComments, authors)
	draftsController := controllers.NewDraftsController(postsDrafts, posts, authors)

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/registration", usersController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/logout", authController.Logout)
	authGroup.GET("/refresh", authController.Refresh)
	authGroup.GET("/activate/:link", authController.Activate)

	r.GET("/user", middleware.AuthRequired(), usersController.Current)

	usersGroup := r.Group("/users")
	usersGroup.GET("", usersController.GetAll)
	usersGroup.GET("/:login", usersController.GetOne)
	usersGroup.PUT("/:id", middleware.AuthRequired(), usersController.Update)
	usersGroup.PATCH("/:id", middleware.AuthRequired(), usersController.PartialUpdate)
	usersGroup.DELETE("/:id", middleware.AuthRequired(), usersController.Delete)

	authorsGroup := r.Group("/authors")
	authorsGroup.GET("", authorsController.GetAll)
	authorsGroup.GET("/:id", authorsController.GetOne)
	authorsGroup.POST("", middleware.AuthRequired(), authorsController.Create)
	authorsGroup.PUT("/:id", middleware.AuthRequired(), authorsController.Update)
	authorsGroup.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), authorsController.Delete)

	categoriesGroup := r.Group("/categories")
	categoriesGroup.GET("", categoriesController.GetAll)
	categoriesGroup.GET("/:id", categoriesController.GetOne)
	categoriesGroup.POST("", middleware.AuthRequired(), middleware.AdminRequired(), categoriesController.Create)
	categoriesGroup.PUT("/:id", middleware.AuthRequired(), middleware.AdminRequired(), categoriesController.Update)
	categoriesGroup.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), categoriesController.Delete)

	tagsGroup := r.Group("/tags")
	tagsGroup.GET("", tagsController.GetAll)
	tagsGroup.GET("/:id", tagsController.GetOne)
	tagsGroup.POST("", middleware.AuthRequired(), middleware.AdminRequired(), tagsController.Create)
	tagsGroup.PUT("/:id", middleware.AuthRequired(), middleware.AdminRequired(), tagsController.Update)
	tagsGroup.DELETE("/:id", middleware.AuthRequired(), middleware.AdminRequired(), tagsController.Delete)

	postsGroup := r.Group("/posts")
	postsGroup.GET("", postsController.GetAll)
	postsGroup.GET("/:id", postsController.GetOne)
	postsGroup.POST("", middleware.AuthRequired(), postsController.Create)
	postsGroup.PUT("/:id", middleware.AuthRequired(), postsController.Update)
	postsGroup.DELETE("/:id", middleware.AuthRequired(), postsController.Delete)

	postsGroup.GET("/:id/comments", postsController.ListComments)
	postsGroup.POST("/:id/comments", middleware.AuthRequired(), postsController.CreateComment)
	postsGroup.DELETE("/:id/comments/:commentId", middleware.AuthRequired(), postsController.DeleteComment)

	postsGroup.GET("/:id/tags", postsController.ListTags)
	postsGroup.POST("/:id/tags/:tagId", middleware.AuthRequired(), postsController.AddTag)
	postsGroup.DELETE("/:id/tags/:tagId", middleware.AuthRequired(), postsController.RemoveTag)

	draftsGroup := postsGroup.Group("/:id/drafts")
	draftsGroup.Use(middleware.AuthRequired())
	draftsGroup.GET("", draftsController.List)
	draftsGroup.POST("", draftsController.Create)
	draftsGroup.GET("/:draftId", draftsController.GetOne)
	draftsGroup.PUT("/:draftId", draftsController.Update)
	draftsGroup.DELETE("/:draftId", draftsController.Delete)
	draftsGroup.POST("/:draftId/publish", draftsController.Publish)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Message(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
