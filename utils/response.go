package utils

import "github.com/gin-gonic/gin"

// Message writes a bare {"message": ...} JSON body with the given status.
// Domain failures are reduced to this shape at the HTTP boundary.
func Message(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, gin.H{"message": msg})
}
