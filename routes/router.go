package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/exhibition/catalog"
	"github.com/cppla/exhibition/config"
	"github.com/cppla/exhibition/controllers"
	"github.com/cppla/exhibition/middleware"
	"github.com/cppla/exhibition/stats"
	"github.com/cppla/exhibition/templates"
	"github.com/cppla/exhibition/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, cfg config.AppConfig) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file when configured, the application logger otherwise
	gl := utils.Logger
	if cfg.GinPath != "" {
		if fl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress); err == nil {
			gl = fl
		} else {
			utils.Sugar.Warnf("gin log file unavailable, using application logger: %v", err)
		}
	}
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, false))
	r.Use(middleware.RequestID())
	if !cfg.MetricsDisabled {
		r.Use(middleware.Prometheus())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	renderer, err := templates.NewRenderer()
	if err != nil {
		panic(err)
	}
	r.HTMLRender = renderer
	r.MaxMultipartMemory = 8 << 20

	// Probes are registered before the session stack so they never count as visits
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	if !cfg.MetricsDisabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	store := cookie.NewStore([]byte(cfg.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))
	r.Use(middleware.LoadSession())

	counter := stats.NewCounter(db)
	directory := catalog.Default()
	r.Use(middleware.VisitCounter(counter))

	r.Static("/static", cfg.StaticDir)
	r.Static("/uploads", cfg.UploadDir)

	galleryController := controllers.NewGalleryController(db, counter, directory)
	authController := controllers.NewAuthController(db, directory)
	adminController := controllers.NewAdminController(db, counter, directory, cfg.UploadDir)

	r.GET("/", galleryController.Index)
	r.GET("/room/:num", galleryController.Room)
	r.GET("/experience", galleryController.Experience)
	r.GET("/goods", galleryController.Goods)
	r.GET("/search", galleryController.Search)
	r.GET("/artwork/:id", galleryController.Detail)
	r.POST("/artwork/:id/comment", middleware.RateLimit(cfg.CommentRatePerMinute), galleryController.AddComment)

	r.GET("/login", authController.LoginForm)
	r.POST("/login", middleware.RateLimit(cfg.CommentRatePerMinute), authController.Login)
	r.GET("/logout", authController.Logout)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired())
	admin.GET("", adminController.Dashboard)
	admin.POST("/add", adminController.AddArtwork)
	admin.GET("/delete_art/:id", adminController.DeleteArtwork)
	admin.GET("/reset_views", adminController.ResetViews)
	admin.POST("/update_order/:id", adminController.UpdateOrder)
	admin.GET("/stats", adminController.Stats)

	r.GET("/comment/delete/:id", middleware.AuthRequired(), adminController.DeleteComment)

	r.NoRoute(controllers.NotFound(directory))

	return r
}
