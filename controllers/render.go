package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/exhibition/catalog"
	"github.com/cppla/exhibition/middleware"
	"github.com/cppla/exhibition/utils"
)

const (
	notFoundMessage    = "페이지를 찾을 수 없습니다."
	serverErrorMessage = "요청을 처리하지 못했습니다. 잠시 후 다시 시도해 주세요."
)

// view carries what every rendered page needs: the room navigation and the session notices.
type view struct {
	directory *catalog.Directory
}

// render executes page with data, adding the room list, the signed-in admin and pending flashes.
func (v view) render(ctx *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Rooms"] = v.directory.Rooms()
	if state := middleware.CurrentSession(ctx); state != nil {
		data["Username"] = state.Username()
		if flashes := state.Flashes(); len(flashes) > 0 {
			data["Flashes"] = flashes
			if err := state.Save(); err != nil {
				utils.Logger.Warn("save session failed", zap.Error(err))
			}
		}
	}
	ctx.HTML(status, page, data)
}

func (v view) notFound(ctx *gin.Context) {
	v.render(ctx, http.StatusNotFound, "error", gin.H{
		"Status":  http.StatusNotFound,
		"Message": notFoundMessage,
	})
}

func (v view) serverError(ctx *gin.Context, msg string, err error) {
	utils.Logger.Error(msg,
		zap.Error(err),
		zap.String("path", ctx.Request.URL.Path),
		zap.String("request_id", ctx.GetString("request_id")),
	)
	v.render(ctx, http.StatusInternalServerError, "error", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": serverErrorMessage,
	})
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(directory *catalog.Directory) gin.HandlerFunc {
	v := view{directory: directory}
	return v.notFound
}

// flash queues msg and persists the session so it survives the redirect that follows.
func flash(ctx *gin.Context, msg string) {
	state := middleware.CurrentSession(ctx)
	if state == nil {
		return
	}
	state.AddFlash(msg)
	if err := state.Save(); err != nil {
		utils.Logger.Warn("save session failed", zap.Error(err))
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
