package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/middleware"
	"github.com/tabasaranec/blogapi/models"
	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

const postsCachePrefix = "cache:posts:"

// postDetailCacheKey ends with a separator so the key for post 1 is never a
// prefix of the key for post 10.
func postDetailCacheKey(id uint) string {
	return fmt.Sprintf("cache:posts:detail:%d:", id)
}

// PostsController manages live articles and their comment and tag
// subresources.
type PostsController struct {
	posts         *services.Posts
	postsTags     *services.PostsTags
	postsComments *services.PostsComments
	authors       *services.Authors
}

// NewPostsController creates a PostsController.
func NewPostsController(posts *services.Posts, postsTags *services.PostsTags, postsComments *services.PostsComments, authors *services.Authors) *PostsController {
	return &PostsController{posts: posts, postsTags: postsTags, postsComments: postsComments, authors: authors}
}

// Create publishes a new post from a multipart form. The author is always
// the caller's own profile, never a form field.
func (p *PostsController) Create(ctx *gin.Context) {
	author, ok := p.requireAuthor(ctx)
	if !ok {
		return
	}

	in, ok := p.postInput(ctx, author.ID, "", nil)
	if !ok {
		return
	}

	post, err := p.posts.Create(*in)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)
	ctx.JSON(http.StatusCreated, post)
}

// GetAll lists posts with the declared filter surface. Unfiltered pages are
// served from cache when possible.
func (p *PostsController) GetAll(ctx *gin.Context) {
	page, perPage := pageQuery(ctx)
	filter, filtered, err := parsePostFilter(ctx)
	if err != nil {
		respondError(ctx, err)
		return
	}

	cacheKey := fmt.Sprintf("cache:posts:list:page=%d:size=%d", page, perPage)
	if !filtered {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	total, posts, err := p.posts.GetAll(filter, page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}

	body := listResponse{
		Pagination: utils.Paginate(ctx.Request, "/posts", page, perPage, total, len(posts)),
		Data:       posts,
	}
	if !filtered {
		utils.CacheSetJSON(cacheKey, body, time.Hour)
	}
	ctx.JSON(http.StatusOK, body)
}

// GetOne returns a post hydrated with tags, comments and the category
// ancestor chain.
func (p *PostsController) GetOne(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	cacheKey := postDetailCacheKey(id)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	detail, err := p.posts.GetOne(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.CacheSetJSON(cacheKey, detail, time.Hour)
	ctx.JSON(http.StatusOK, detail)
}

// Update replaces a post's fields from a multipart form. Only the owning
// author or an admin may update; the owning author never changes.
func (p *PostsController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	existing, ok := p.authorizePost(ctx, id)
	if !ok {
		return
	}

	in, ok := p.postInput(ctx, existing.AuthorID, existing.MainImg, existing.OtherImgs)
	if !ok {
		return
	}

	post, err := p.posts.Update(id, *in)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)
	ctx.JSON(http.StatusOK, post)
}

// Delete removes a post and everything joined to it.
func (p *PostsController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if _, ok := p.authorizePost(ctx, id); !ok {
		return
	}

	if err := p.posts.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)
	utils.Message(ctx, http.StatusOK, "post deleted")
}

// CreateComment attaches a comment by the caller to a post.
func (p *PostsController) CreateComment(ctx *gin.Context) {
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
		Body string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	body := utils.Sanitize(req.Body)
	if strings.TrimSpace(body) == "" {
		utils.Message(ctx, http.StatusBadRequest, "comment body cannot be empty")
		return
	}

	comment, err := p.postsComments.Create(id, identity.UserID, body)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.CacheDelete(postDetailCacheKey(id))
	ctx.JSON(http.StatusCreated, comment)
}

// ListComments returns a post's comments, paginated.
func (p *PostsController) ListComments(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	page, perPage := pageQuery(ctx)

	total, comments, err := p.postsComments.GetPostComments(id, page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	route := fmt.Sprintf("/posts/%d/comments", id)
	ctx.JSON(http.StatusOK, listResponse{
		Pagination: utils.Paginate(ctx.Request, route, page, perPage, total, len(comments)),
		Data:       comments,
	})
}

// DeleteComment removes a comment. Comment authors and admins only.
func (p *PostsController) DeleteComment(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(ctx, "commentId")
	if !ok {
		return
	}
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Message(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := p.postsComments.Delete(id, commentID, identity.UserID, identity.Admin); err != nil {
		respondError(ctx, err)
		return
	}

	utils.CacheDelete(postDetailCacheKey(id))
	utils.Message(ctx, http.StatusOK, "comment deleted")
}

// AddTag links an existing tag to a post.
func (p *PostsController) AddTag(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	tagID, ok := idParam(ctx, "tagId")
	if !ok {
		return
	}
	if _, ok := p.authorizePost(ctx, id); !ok {
		return
	}

	tag, err := p.postsTags.Create(id, tagID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)
	ctx.JSON(http.StatusCreated, tag)
}

// ListTags returns the tags linked to a post.
func (p *PostsController) ListTags(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	tags, err := p.postsTags.GetPostTags(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tags)
}

// RemoveTag unlinks a tag from a post.
func (p *PostsController) RemoveTag(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	tagID, ok := idParam(ctx, "tagId")
	if !ok {
		return
	}
	if _, ok := p.authorizePost(ctx, id); !ok {
		return
	}

	if err := p.postsTags.Delete(id, tagID); err != nil {
		respondError(ctx, err)
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)
	utils.Message(ctx, http.StatusOK, "tag removed from post")
}

// postInput builds a PostInput from the multipart form. Missing image
// uploads fall back to the provided current values so updates keep them.
func (p *PostsController) postInput(ctx *gin.Context, authorID uint, currentMainImg string, currentOtherImgs []string) (*services.PostInput, bool) {
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

	tagIDs, err := parseTagIDs(ctx.PostFormArray("tags"))
	if err != nil {
		respondError(ctx, err)
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

	return &services.PostInput{
		Title:      title,
		Body:       body,
		AuthorID:   authorID,
		CategoryID: uint(categoryID),
		MainImg:    mainImg,
		OtherImgs:  otherImgs,
		TagIDs:     tagIDs,
	}, true
}

// requireAuthor resolves the caller's author profile, rejecting users who
// have not registered one.
func (p *PostsController) requireAuthor(ctx *gin.Context) (*models.Author, bool) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Message(ctx, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	author, err := p.authors.GetByUserID(identity.UserID)
	if err != nil {
		if errors.Is(err, services.ErrAuthorNotFound) {
			utils.Message(ctx, http.StatusBadRequest, "an author profile is required to manage posts")
			return nil, false
		}
		respondError(ctx, err)
		return nil, false
	}
	return author, true
}

// authorizePost loads the post and allows the owning author or an admin
// through.
func (p *PostsController) authorizePost(ctx *gin.Context, postID uint) (*services.PostDetail, bool) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Message(ctx, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	detail, err := p.posts.GetOne(postID)
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	if identity.Admin {
		return detail, true
	}

	author, err := p.authors.GetByUserID(identity.UserID)
	if err != nil || author.ID != detail.AuthorID {
		utils.Message(ctx, http.StatusForbidden, "you can only manage your own posts")
		return nil, false
	}
	return detail, true
}

// parsePostFilter reads the filter query surface; the second result says
// whether any filter was actually supplied.
func parsePostFilter(ctx *gin.Context) (services.PostFilter, bool, error) {
	filter := services.PostFilter{
		CreatedAt:   strings.TrimSpace(ctx.Query("created_at")),
		CreatedAtGT: strings.TrimSpace(ctx.Query("created_at__gt")),
		CreatedAtLT: strings.TrimSpace(ctx.Query("created_at__lt")),
		Category:    strings.TrimSpace(ctx.Query("category")),
		Title:       strings.TrimSpace(ctx.Query("title")),
		Body:        strings.TrimSpace(ctx.Query("body")),
		Sort:        strings.TrimSpace(ctx.Query("sort")),
	}

	tagValues := ctx.QueryArray("tags__in")
	if tag := ctx.Query("tag"); tag != "" {
		tagValues = append(tagValues, tag)
	}
	tagIDs, err := parseTagIDs(tagValues)
	if err != nil {
		return filter, false, err
	}
	filter.TagIDs = tagIDs

	filtered := filter.CreatedAt != "" || filter.CreatedAtGT != "" || filter.CreatedAtLT != "" ||
		filter.Category != "" || filter.Title != "" || filter.Body != "" ||
		filter.Sort != "" || len(filter.TagIDs) > 0
	return filter, filtered, nil
}
