package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/middleware"
	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

// UsersController manages accounts: registration with an optional avatar
// upload and the profile CRUD surface.
type UsersController struct {
	users *services.Users
}

// NewUsersController creates a UsersController.
func NewUsersController(users *services.Users) *UsersController {
	return &UsersController{users: users}
}

// Register creates an inactive account from a multipart form and issues a
// token pair right away. The avatar file is optional.
func (u *UsersController) Register(ctx *gin.Context) {
	login := strings.TrimSpace(ctx.PostForm("login"))
	email := strings.TrimSpace(ctx.PostForm("email"))
	password := ctx.PostForm("password")
	if login == "" || email == "" || password == "" {
		utils.Message(ctx, http.StatusBadRequest, "login, email and password are required")
		return
	}

	avatar := ""
	if fh, err := ctx.FormFile("avatar"); err == nil {
		name, err := utils.SaveImage(fh, "avatars")
		if err != nil {
			respondError(ctx, err)
			return
		}
		avatar = name
	}

	result, err := u.users.Registration(services.RegistrationInput{
		FirstName: utils.Sanitize(strings.TrimSpace(ctx.PostForm("firstName"))),
		LastName:  utils.Sanitize(strings.TrimSpace(ctx.PostForm("lastName"))),
		Login:     login,
		Email:     email,
		Password:  password,
		Avatar:    avatar,
	})
	if err != nil {
		// no account, so nothing references the stored avatar
		utils.RemoveImage(avatar, "avatars")
		respondError(ctx, err)
		return
	}

	setRefreshCookie(ctx, result.Tokens.RefreshToken)
	ctx.JSON(http.StatusCreated, authPayload(result))
}

// GetAll returns a paginated user list.
func (u *UsersController) GetAll(ctx *gin.Context) {
	page, perPage := pageQuery(ctx)
	total, users, err := u.users.GetAll(page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listResponse{
		Pagination: utils.Paginate(ctx.Request, "/users", page, perPage, total, len(users)),
		Data:       users,
	})
}

// GetOne looks up a user by login.
func (u *UsersController) GetOne(ctx *gin.Context) {
	user, err := u.users.GetOne(ctx.Param("login"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// Current returns the authenticated caller's own profile.
func (u *UsersController) Current(ctx *gin.Context) {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Message(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := u.users.GetByID(identity.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// Update replaces the profile fields. The current password authorizes the
// change, so this is effectively a self-service endpoint.
func (u *UsersController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if !u.authorize(ctx, id) {
		return
	}

	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Login     string `json:"login" binding:"required"`
		Password  string `json:"password" binding:"required"`
		Avatar    string `json:"avatar"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := u.users.Update(id, services.UpdateUserInput{
		FirstName: utils.Sanitize(req.FirstName),
		LastName:  utils.Sanitize(req.LastName),
		Login:     req.Login,
		Password:  req.Password,
		Avatar:    req.Avatar,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// PartialUpdate applies only the provided profile fields.
func (u *UsersController) PartialUpdate(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if !u.authorize(ctx, id) {
		return
	}

	var fields map[string]interface{}
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := u.users.PartialUpdate(id, fields)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// Delete removes an account together with its author profile and session.
func (u *UsersController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	if !u.authorize(ctx, id) {
		return
	}

	if err := u.users.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	clearRefreshCookie(ctx)
	utils.Message(ctx, http.StatusOK, "user deleted")
}

// authorize allows the account owner and admins through.
func (u *UsersController) authorize(ctx *gin.Context, id uint) bool {
	identity, ok := middleware.IdentityFrom(ctx)
	if !ok || (identity.UserID != id && !identity.Admin) {
		utils.Message(ctx, http.StatusForbidden, "you can only manage your own account")
		return false
	}
	return true
}
