package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/config"
	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

const refreshCookie = "refreshToken"

// AuthController handles session endpoints: login, logout, token refresh
// and account activation. Registration lives on UsersController.
type AuthController struct {
	users *services.Users
}

// NewAuthController creates an AuthController.
func NewAuthController(users *services.Users) *AuthController {
	return &AuthController{users: users}
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token additionally travels in an HTTP-only cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := a.users.Login(req.Login, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	setRefreshCookie(ctx, result.Tokens.RefreshToken)
	ctx.JSON(http.StatusOK, authPayload(result))
}

// Logout drops the stored refresh token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := refreshTokenFrom(ctx)
	if token == "" {
		utils.Message(ctx, http.StatusUnauthorized, "refresh token missing")
		return
	}

	if err := a.users.Logout(token); err != nil {
		respondError(ctx, err)
		return
	}

	clearRefreshCookie(ctx)
	utils.Message(ctx, http.StatusOK, "logged out")
}

// Refresh rotates the token pair for a valid stored refresh token.
func (a *AuthController) Refresh(ctx *gin.Context) {
	result, err := a.users.Refresh(refreshTokenFrom(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	setRefreshCookie(ctx, result.Tokens.RefreshToken)
	ctx.JSON(http.StatusOK, authPayload(result))
}

// Activate flips the account's activation flag from the mailed link. A
// stale or already used link is a no-op, not an error.
func (a *AuthController) Activate(ctx *gin.Context) {
	user, err := a.users.Activate(ctx.Param("link"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	if clientURL := config.Get().ClientURL; clientURL != "" {
		ctx.Redirect(http.StatusFound, clientURL)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func authPayload(result *services.AuthResult) gin.H {
	return gin.H{
		"user":         result.User,
		"accessToken":  result.Tokens.AccessToken,
		"refreshToken": result.Tokens.RefreshToken,
	}
}

// refreshTokenFrom prefers the cookie and falls back to a JSON body field
// for clients that cannot carry cookies.
func refreshTokenFrom(ctx *gin.Context) string {
	if token, err := ctx.Cookie(refreshCookie); err == nil && token != "" {
		return token
	}
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := ctx.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func setRefreshCookie(ctx *gin.Context, token string) {
	maxAge := config.Get().JWTRefreshExpiresHrs * 3600
	ctx.SetCookie(refreshCookie, token, maxAge, "/", "", false, true)
}

func clearRefreshCookie(ctx *gin.Context) {
	ctx.SetCookie(refreshCookie, "", -1, "/", "", false, true)
}
