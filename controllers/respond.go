package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tabasaranec/blogapi/services"
	"github.com/tabasaranec/blogapi/utils"
)

// listResponse is the body of every paginated endpoint: the metadata fields
// flattened next to the page itself.
type listResponse struct {
	utils.Pagination
	Data interface{} `json:"data"`
}

// respondError translates service errors into status codes. Anything not in
// the known taxonomy is logged and reduced to a generic 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.Message(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Message(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrBadRequest), errors.Is(err, utils.ErrUnsupportedFileType):
		utils.Message(ctx, http.StatusBadRequest, err.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "error", err)
		}
		utils.Message(ctx, http.StatusInternalServerError, "internal server error")
	}
}

func idParam(ctx *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		utils.Message(ctx, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(n), true
}

func pageQuery(ctx *gin.Context) (int, int) {
	return utils.ParsePageQuery(ctx.Query("page"), ctx.Query("per_page"))
}

// parseTagIDs accepts repeated form values, each of which may itself be a
// comma separated list.
func parseTagIDs(values []string) ([]uint, error) {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				return nil, services.BadRequest("invalid tag id: " + part)
			}
			ids = append(ids, uint(n))
		}
	}
	return ids, nil
}
