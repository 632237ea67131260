package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

// CategoriesController manages the category tree. Writes are admin gated
// in the router.
type CategoriesController struct {
	categories *services.Categories
}

// NewCategoriesController creates a CategoriesController.
func NewCategoriesController(categories *services.Categories) *CategoriesController {
	return &CategoriesController{categories: categories}
}

type categoryRequest struct {
	Description string `json:"description" binding:"required"`
	ParentID    *uint  `json:"parentId"`
}

// Create inserts a category under an optional existing parent.
func (c *CategoriesController) Create(ctx *gin.Context) {
	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	category, err := c.categories.Create(utils.Sanitize(req.Description), req.ParentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

// Update edits a category. Cycle-creating parent assignments are rejected.
func (c *CategoriesController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	category, err := c.categories.Update(id, utils.Sanitize(req.Description), req.ParentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	// cached post details embed the ancestor chain
	utils.InvalidateByPrefix(postsCachePrefix)
	ctx.JSON(http.StatusOK, category)
}

// GetAll returns a paginated flat category list.
func (c *CategoriesController) GetAll(ctx *gin.Context) {
	page, perPage := pageQuery(ctx)
	total, categories, err := c.categories.GetAll(page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listResponse{
		Pagination: utils.Paginate(ctx.Request, "/categories", page, perPage, total, len(categories)),
		Data:       categories,
	})
}

// GetOne returns the category's ancestor chain from the requested node up
// to the root.
func (c *CategoriesController) GetOne(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	chain, err := c.categories.GetOne(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chain)
}

// Delete removes a category.
func (c *CategoriesController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.categories.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.InvalidateByPrefix(postsCachePrefix)
	utils.Message(ctx, http.StatusOK, "category deleted")
}
