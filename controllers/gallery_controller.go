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
	"github.com/cppla/exhibition/metrics"
	"github.com/cppla/exhibition/middleware"
	"github.com/cppla/exhibition/models"
	"github.com/cppla/exhibition/stats"
	"github.com/cppla/exhibition/utils"
)

// artworkOrder is the listing order shared by rooms and search results.
const artworkOrder = "display_order ASC, artist ASC, id ASC"

// GalleryController serves the public pages: rooms, search, artwork detail and comments.
type GalleryController struct {
	view
	db      *gorm.DB
	counter *stats.Counter
}

// NewGalleryController creates a GalleryController.
func NewGalleryController(db *gorm.DB, counter *stats.Counter, directory *catalog.Directory) *GalleryController {
	return &GalleryController{view: view{directory: directory}, db: db, counter: counter}
}

// Index renders the landing page.
func (g *GalleryController) Index(ctx *gin.Context) {
	g.render(ctx, http.StatusOK, "index", nil)
}

// Experience renders the static experience page.
func (g *GalleryController) Experience(ctx *gin.Context) {
	g.render(ctx, http.StatusOK, "experience", nil)
}

// Goods renders the static goods page.
func (g *GalleryController) Goods(ctx *gin.Context) {
	g.render(ctx, http.StatusOK, "goods", nil)
}

// Room lists the artworks of one room with the colors of its artists.
func (g *GalleryController) Room(ctx *gin.Context) {
	num, err := strconv.Atoi(ctx.Param("num"))
	if err != nil {
		g.notFound(ctx)
		return
	}

	var artworks []models.Artwork
	if err := g.db.WithContext(ctx).Where("room = ?", num).Order(artworkOrder).Find(&artworks).Error; err != nil {
		g.serverError(ctx, "list room artworks failed", err)
		return
	}

	g.render(ctx, http.StatusOK, "room", gin.H{
		"RoomNum":     num,
		"Artworks":    artworks,
		"ArtistsInfo": g.directory.Room(num),
	})
}

// Search filters artworks by a title/artist substring, an exact room and an exact artist.
// Nothing is queried until at least one filter is given.
func (g *GalleryController) Search(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	room := strings.TrimSpace(ctx.Query("room"))
	artist := strings.TrimSpace(ctx.Query("artist"))
	searched := q != "" || room != "" || artist != ""

	var results []models.Artwork
	if searched {
		query := g.db.WithContext(ctx).Model(&models.Artwork{})
		if q != "" {
			like := "%" + q + "%"
			query = query.Where("title LIKE ? OR artist LIKE ?", like, like)
		}
		if n, err := strconv.Atoi(room); err == nil {
			query = query.Where("room = ?", n)
		}
		if artist != "" {
			query = query.Where("artist = ?", artist)
		}
		if err := query.Order(artworkOrder).Find(&results).Error; err != nil {
			g.serverError(ctx, "search artworks failed", err)
			return
		}
	}

	g.render(ctx, http.StatusOK, "search", gin.H{
		"Query":         q,
		"CurrentRoom":   room,
		"CurrentArtist": artist,
		"Artists":       g.directory.Names(),
		"Searched":      searched,
		"Results":       results,
	})
}

// Detail shows one artwork and its comments. The first view of the artwork in a session is counted.
func (g *GalleryController) Detail(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		g.notFound(ctx)
		return
	}

	var artwork models.Artwork
	if err := g.db.WithContext(ctx).First(&artwork, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.notFound(ctx)
			return
		}
		g.serverError(ctx, "load artwork failed", err)
		return
	}

	if state := middleware.CurrentSession(ctx); state != nil && !state.HasViewed(artwork.ID) {
		err := g.counter.RecordView(ctx, artwork.ID)
		switch {
		case err == nil:
			artwork.Views++
			metrics.ArtworkViews.Inc()
			state.MarkViewed(artwork.ID)
			if err := state.Save(); err != nil {
				utils.Logger.Warn("save session failed", zap.Error(err))
			}
		case errors.Is(err, stats.ErrArtworkNotFound):
			g.notFound(ctx)
			return
		default:
			metrics.CounterErrors.WithLabelValues("view").Inc()
			utils.Logger.Warn("record artwork view failed", zap.Uint("artwork_id", artwork.ID), zap.Error(err))
		}
	}

	var comments []models.Comment
	if err := g.db.WithContext(ctx).
		Where("artwork_id = ?", artwork.ID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		g.serverError(ctx, "load comments failed", err)
		return
	}

	data := gin.H{
		"Artwork":  artwork,
		"Comments": comments,
	}
	if info, ok := g.directory.Lookup(artwork.Artist); ok {
		data["ArtistColor"] = &info
	}
	g.render(ctx, http.StatusOK, "detail", data)
}

// AddComment stores an anonymous comment on an artwork. Blank comments are dropped silently.
func (g *GalleryController) AddComment(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		g.notFound(ctx)
		return
	}

	var artwork models.Artwork
	if err := g.db.WithContext(ctx).Select("id").First(&artwork, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g.notFound(ctx)
			return
		}
		g.serverError(ctx, "load artwork failed", err)
		return
	}

	detail := "/artwork/" + strconv.FormatUint(uint64(artwork.ID), 10)
	content := strings.TrimSpace(utils.StripTags(ctx.PostForm("content")))
	if content == "" {
		ctx.Redirect(http.StatusFound, detail)
		return
	}

	comment := models.Comment{ArtworkID: artwork.ID, Content: content}
	if err := g.db.WithContext(ctx).Create(&comment).Error; err != nil {
		g.serverError(ctx, "create comment failed", err)
		return
	}
	metrics.CommentsPosted.Inc()
	ctx.Redirect(http.StatusFound, detail)
}
