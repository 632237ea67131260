package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/middleware"
	"github.com/tabasaranec/blogapi/models"
	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

// DraftsController manages a post's staged revisions. Every endpoint is
// scoped to the owning author; admins may act on any post.
type DraftsController struct {
	postsDrafts *services.PostsDrafts
	posts       *services.Posts
	authors     *services.Authors
}

// NewDraftsController creates a DraftsController.
func NewDraftsController(postsDrafts *services.PostsDrafts, posts *services.Posts, authors *services.Authors) *DraftsController {
	return &DraftsController{postsDrafts: postsDrafts, posts: posts, authors: authors}
}

// Create stages a new draft on a post.
func (d *DraftsController) Create(ctx *gin.Context) {
	postID, author, ok := d.authorize(ctx)
	if !ok {
		return
	}

	in, ok := d.draftInput(ctx, author.ID, "", nil)
	if !ok {
		return
	}

	draft, err := d.postsDrafts.Create(postID, *in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, draft)
}

// List returns the caller's drafts on a post, paginated.
func (d *DraftsController) List(ctx *gin.Context) {
	postID, author, ok := d.authorize(ctx)
	if !ok {
		return
	}
	page, perPage := pageQuery(ctx)

	total, drafts, err := d.postsDrafts.GetPostDrafts(postID, author.ID, page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	route := fmt.Sprintf("/posts/%d/drafts", postID)
	ctx.JSON(http.StatusOK, listResponse{
		Pagination: utils.Paginate(ctx.Request, route, page, perPage, total, len(drafts)),
		Data:       drafts,
	})
}

// GetOne returns a single draft of a post.
func (d *DraftsController) GetOne(ctx *gin.Context) {
	postID, _, ok := d.authorize(ctx)
	if !ok {
		return
	}
	draftID, ok := idParam(ctx, "draftId")
	if !ok {
		return
	}

	draft, err := d.postsDrafts.GetOne(postID, draftID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, draft)
}

// Update replaces a draft's fields.
func (d *DraftsController) Update(ctx *gin.Context) {
	postID, author, ok := d.authorize(ctx)
	if !ok {
		return
	}
	draftID, ok := idParam(ctx, "draftId")
	if !ok {
		return
	}

	current, err := d.postsDrafts.GetOne(postID, draftID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	in, ok := d.draftInput(ctx, author.ID, current.MainImg, current.OtherImgs)
	if !ok {
		return
	}

	draft, err := d.postsDrafts.Update(postID, draftID, *in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, draft)
}

// Delete unlinks and removes a draft.
func (d *DraftsController) Delete(ctx *gin.Context) {
	postID, _, ok := d.authorize(ctx)
	if !ok {
		return
	}
	draftID, ok := idParam(ctx, "draftId")
	if !ok {
		return
	}

	if err := d.postsDrafts.Delete(postID, draftID); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Message(ctx, http.StatusOK, "draft deleted")
}

// Publish promotes a draft's fields onto the live post.
func (d *DraftsController) Publish(ctx *gin.Context) {
	postID, _, ok := d.authorize(ctx)
	if !ok {
		return
	}
	draftID, ok := idParam(ctx, "draftId")
	if !ok {
		return
	}

	post, err := d.postsDrafts.Publish(postID, draftID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)
	ctx.JSON(http.StatusOK, post)
}

// authorize resolves the post id and the caller's author profile and checks
// the caller owns the post. Admins pass with their own profile.
func (d *DraftsController) authorize(ctx *gin.Context) (uint, *models.Author, bool) {
	postID, ok := idParam(ctx, "id")
	if !ok {
		return 0, nil, false
	}
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Message(ctx, http.StatusUnauthorized, "unauthorized")
		return 0, nil, false
	}

	author, err := d.authors.GetByUserID(identity.UserID)
	if err != nil {
		if errors.Is(err, services.ErrAuthorNotFound) {
			utils.Message(ctx, http.StatusBadRequest, "an author profile is required to manage drafts")
			return 0, nil, false
		}
		respondError(ctx, err)
		return 0, nil, false
	}

	detail, err := d.posts.GetOne(postID)
	if err != nil {
		respondError(ctx, err)
		return 0, nil, false
	}
	if !identity.Admin && detail.AuthorID != author.ID {
		utils.Message(ctx, http.StatusForbidden, "you can only manage drafts of your own posts")
		return 0, nil, false
	}
	return postID, author, true
}

// draftInput mirrors postInput for the draft form fields.
func (d *DraftsController) draftInput(ctx *gin.Context, authorID uint, currentMainImg string, currentOtherImgs []string) (*services.DraftInput, bool) {
	title := utils.Sanitize(strings.TrimSpace(ctx.PostForm("title")))
	body := utils.Sanitize(ctx.PostForm("body"))
	if title == "" || strings.TrimSpace(body) == "" {
		utils.Message(ctx, http.StatusBadRequest, "title and body are required")
		return nil, false
	}

	categoryID, err := strconv.ParseUint(ctx.PostForm("categoryId"), 10, 32)
	if err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid categoryId")
		return nil, false
	}

	mainImg := currentMainImg
	if fh, err := ctx.FormFile("mainImg"); err == nil {
		name, err := utils.SaveImage(fh, "posts")
		if err != nil {
			respondError(ctx, err)
			return nil, false
		}
		mainImg = name
	}

	otherImgs := currentOtherImgs
	if form, err := ctx.MultipartForm(); err == nil {
		if fhs := form.File["otherImgs"]; len(fhs) > 0 {
			names, err := utils.SaveImages(fhs, "posts")
			if err != nil {
				respondError(ctx, err)
				return nil, false
			}
			otherImgs = names
		}
	}

	return &services.DraftInput{
		Title:      title,
		Body:       body,
		AuthorID:   authorID,
		CategoryID: uint(categoryID),
		MainImg:    mainImg,
		OtherImgs:  otherImgs,
	}, true
}
