package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

// TagsController manages the flat tag registry. Writes are admin gated in
// the router.
type TagsController struct {
	tags *services.Tags
}

// NewTagsController creates a TagsController.
func NewTagsController(tags *services.Tags) *TagsController {
	return &TagsController{tags: tags}
}

type tagRequest struct {
	Title string `json:"title" binding:"required"`
}

// Create inserts a tag.
func (t *TagsController) Create(ctx *gin.Context) {
	var req tagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	tag, err := t.tags.Create(utils.Sanitize(req.Title))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, tag)
}

// Update renames a tag.
func (t *TagsController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req tagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	tag, err := t.tags.Update(id, utils.Sanitize(req.Title))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tag)
}

// GetAll returns a paginated tag list.
func (t *TagsController) GetAll(ctx *gin.Context) {
	page, perPage := pageQuery(ctx)
	total, tags, err := t.tags.GetAll(page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listResponse{
		Pagination: utils.Paginate(ctx.Request, "/tags", page, perPage, total, len(tags)),
		Data:       tags,
	})
}

// GetOne looks up a tag by id.
func (t *TagsController) GetOne(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	tag, err := t.tags.GetOne(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tag)
}

// Delete removes a tag.
func (t *TagsController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if err := t.tags.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "tag deleted")
}
