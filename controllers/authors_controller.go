package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/middleware"
	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

// AuthorsController manages writing profiles.
type AuthorsController struct {
	authors *services.Authors
}

// NewAuthorsController creates an AuthorsController.
func NewAuthorsController(authors *services.Authors) *AuthorsController {
	return &AuthorsController{authors: authors}
}

// Create registers the caller's author profile, updating it in place when
// one already exists.
func (a *AuthorsController) Create(ctx *gin.Context) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Message(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	author, err := a.authors.Create(identity.UserID, utils.Sanitize(req.Description))
	if err != nil {
		respondError(ctx, err)
		return
	}
	// Create doubles as an in-place update; cached posts embed the author
	utils.InvalidateByPrefix(postsCachePrefix)
	ctx.JSON(http.StatusCreated, author)
}

// GetAll returns a paginated author list with owners preloaded.
func (a *AuthorsController) GetAll(ctx *gin.Context) {
	page, perPage := pageQuery(ctx)
	total, authors, err := a.authors.GetAll(page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listResponse{
		Pagination: utils.Paginate(ctx.Request, "/authors", page, perPage, total, len(authors)),
		Data:       authors,
	})
}

// GetOne looks up an author by id.
func (a *AuthorsController) GetOne(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	author, err := a.authors.GetOne(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, author)
}

// Update edits the caller's own author profile.
func (a *AuthorsController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Message(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	author, err := a.authors.Update(id, identity.UserID, utils.Sanitize(req.Description))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(postsCachePrefix)
	ctx.JSON(http.StatusOK, author)
}

// Delete removes an author profile. Admin only, wired in the router.
func (a *AuthorsController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := a.authors.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(postsCachePrefix)
	utils.Message(ctx, http.StatusOK, "author deleted")
}
