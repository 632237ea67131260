package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/utils"
)

const identityKey = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID      uint
	Email       string
	Admin       bool
	IsActivated bool
}

// AuthRequired ensures the request carries a valid access token and attaches
// the caller's identity to the context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Message(ctx, http.StatusUnauthorized, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Message(ctx, http.StatusUnauthorized, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Message(ctx, http.StatusUnauthorized, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, ok := utils.ValidateAccess(tokenString)
		if !ok {
			utils.Message(ctx, http.StatusUnauthorized, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(identityKey, Identity{
			UserID:      claims.UserID,
			Email:       claims.Email,
			Admin:       claims.Admin,
			IsActivated: claims.IsActivated,
		})
		ctx.Next()
	}
}

// AdminRequired rejects non-admin callers. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := IdentityFrom(ctx)
		if !ok || !identity.Admin {
			utils.Message(ctx, http.StatusForbidden, "admin access required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// IdentityFrom returns the identity set by AuthRequired.
func IdentityFrom(ctx *gin.Context) (Identity, bool) {
	value, exists := ctx.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
