package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/exhibition/catalog"
	"github.com/cppla/exhibition/models"
	"github.com/cppla/exhibition/stats"
	"github.com/cppla/exhibition/utils"
)

const (
	adminPath       = "/admin"
	dashboardDays   = 14
	dashboardTop    = 5
	statsRecentDays = 30
)

// AdminController serves the console behind AuthRequired.
type AdminController struct {
	view
	db        *gorm.DB
	counter   *stats.Counter
	reader    *stats.Reader
	uploadDir string
}

// NewAdminController creates an AdminController storing uploads under uploadDir.
func NewAdminController(db *gorm.DB, counter *stats.Counter, directory *catalog.Directory, uploadDir string) *AdminController {
	return &AdminController{
		view:      view{directory: directory},
		db:        db,
		counter:   counter,
		reader:    stats.NewReader(counter),
		uploadDir: uploadDir,
	}
}

// Dashboard lists artworks and comments next to the visit and view statistics.
func (a *AdminController) Dashboard(ctx *gin.Context) {
	var artworks []models.Artwork
	if err := a.db.WithContext(ctx).Order("room ASC, " + artworkOrder).Find(&artworks).Error; err != nil {
		a.serverError(ctx, "list artworks failed", err)
		return
	}

	var comments []models.Comment
	if err := a.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&comments).Error; err != nil {
		a.serverError(ctx, "list comments failed", err)
		return
	}

	summary, err := a.reader.Summary(ctx, dashboardDays, dashboardTop)
	if err != nil {
		a.serverError(ctx, "load statistics failed", err)
		return
	}

	a.render(ctx, http.StatusOK, "admin", gin.H{
		"Artworks": artworks,
		"Comments": comments,
		"Artists":  a.directory.Names(),
		"Stats":    summary,
	})
}

// AddArtwork creates an artwork from the console form. The image is either an uploaded file or the
// name of a file already present in the upload directory; without one nothing is created.
func (a *AdminController) AddArtwork(ctx *gin.Context) {
	title := strings.TrimSpace(ctx.PostForm("title"))
	artist := strings.TrimSpace(ctx.PostForm("artist"))
	room, err := strconv.Atoi(strings.TrimSpace(ctx.PostForm("room")))
	if err != nil {
		room = 1
	}

	var imageFile, thumbFile string
	if header, err := ctx.FormFile("image"); err == nil && header.Filename != "" {
		imageFile, err = utils.SaveUpload(header, a.uploadDir)
		if errors.Is(err, utils.ErrUploadTooLarge) {
			flash(ctx, "이미지 파일이 너무 큽니다.")
			ctx.Redirect(http.StatusFound, adminPath)
			return
		}
		if err != nil {
			a.serverError(ctx, "save upload failed", err)
			return
		}
		thumbFile, err = utils.MakeThumbnail(a.uploadDir, imageFile)
		if err != nil {
			utils.Logger.Warn("thumbnail failed", zap.String("file", imageFile), zap.Error(err))
		}
	} else {
		imageFile = utils.SecureFilename(ctx.PostForm("image_file"))
	}

	if imageFile == "" || title == "" {
		ctx.Redirect(http.StatusFound, adminPath)
		return
	}

	artwork := models.Artwork{
		Title:       title,
		Artist:      artist,
		Medium:      strings.TrimSpace(ctx.PostForm("medium")),
		Description: utils.Sanitize(ctx.PostForm("description")),
		ImageFile:   imageFile,
		ThumbFile:   thumbFile,
		Room:        room,
	}
	if err := a.db.WithContext(ctx).Create(&artwork).Error; err != nil {
		a.serverError(ctx, "create artwork failed", err)
		return
	}
	utils.Logger.Info("artwork added", zap.Uint("artwork_id", artwork.ID), zap.String("title", artwork.Title))
	ctx.Redirect(http.StatusFound, adminPath)
}

// DeleteArtwork removes an artwork together with its comments.
func (a *AdminController) DeleteArtwork(ctx *gin.Context) {
	artwork, ok := a.loadArtwork(ctx)
	if !ok {
		return
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("artwork_id = ?", artwork.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&artwork).Error
	})
	if err != nil {
		a.serverError(ctx, "delete artwork failed", err)
		return
	}
	utils.Logger.Info("artwork deleted", zap.Uint("artwork_id", artwork.ID))
	ctx.Redirect(http.StatusFound, adminPath)
}

// DeleteComment removes one comment.
func (a *AdminController) DeleteComment(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		a.notFound(ctx)
		return
	}

	var comment models.Comment
	if err := a.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.notFound(ctx)
			return
		}
		a.serverError(ctx, "load comment failed", err)
		return
	}
	if err := a.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		a.serverError(ctx, "delete comment failed", err)
		return
	}
	ctx.Redirect(http.StatusFound, adminPath)
}

// ResetViews zeroes every artwork's view counter. Daily statistics are kept.
func (a *AdminController) ResetViews(ctx *gin.Context) {
	n, err := a.counter.ResetViews(ctx)
	if err != nil {
		a.serverError(ctx, "reset views failed", err)
		return
	}
	utils.Logger.Info("artwork views reset", zap.Int64("artworks", n))
	flash(ctx, "조회수가 초기화되었습니다.")
	ctx.Redirect(http.StatusFound, adminPath)
}

// UpdateOrder sets an artwork's display order. A non-numeric value leaves it unchanged.
func (a *AdminController) UpdateOrder(ctx *gin.Context) {
	artwork, ok := a.loadArtwork(ctx)
	if !ok {
		return
	}

	order, err := strconv.Atoi(strings.TrimSpace(ctx.PostForm("display_order")))
	if err != nil {
		ctx.Redirect(http.StatusFound, adminPath)
		return
	}
	if err := a.db.WithContext(ctx).Model(&artwork).Update("display_order", order).Error; err != nil {
		a.serverError(ctx, "update display order failed", err)
		return
	}
	ctx.Redirect(http.StatusFound, adminPath)
}

// Stats returns the statistics summary as JSON.
func (a *AdminController) Stats(ctx *gin.Context) {
	summary, err := a.reader.Summary(ctx, statsRecentDays, dashboardTop)
	if err != nil {
		utils.Logger.Error("load statistics failed", zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, 50000, "failed to load statistics")
		return
	}
	utils.Success(ctx, summary)
}

func (a *AdminController) loadArtwork(ctx *gin.Context) (models.Artwork, bool) {
	var artwork models.Artwork
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		a.notFound(ctx)
		return artwork, false
	}
	if err := a.db.WithContext(ctx).First(&artwork, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a.notFound(ctx)
			return artwork, false
		}
		a.serverError(ctx, "load artwork failed", err)
		return artwork, false
	}
	return artwork, true
}
