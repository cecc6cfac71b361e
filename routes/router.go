package routes

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/qiume/talkwall/config"
	"github.com/qiume/talkwall/controllers"
	"github.com/qiume/talkwall/middleware"
	"github.com/qiume/talkwall/utils"
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
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, cfg)
	postController := controllers.NewPostController(db)
	userController := controllers.NewUserController(db)

	api := r.Group("/api")

	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)
	api.POST("/logout", authController.Logout)

	// Everything below requires a session, reading included
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(db, cfg))
	protected.GET("/me", authController.Me)
	protected.PATCH("/me", authController.UpdateProfile)
	protected.POST("/me/password", authController.ChangePassword)
	protected.GET("/me/posts", postController.ListMyPosts)
	protected.GET("/users/:uid", userController.GetProfile)
	protected.POST("/posts", postController.CreatePost)
	protected.GET("/posts", postController.ListPosts)
	protected.GET("/posts/:id", postController.GetPost)
	protected.POST("/posts/:id/comments", postController.CreateComment)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(db, cfg), middleware.AdminRequired())
	admin.DELETE("/posts/:id", postController.DeletePost)

	// Serve the built frontend; unknown non-API paths fall back to the SPA entry
	staticDir := cfg.StaticDir
	r.Static("/assets", filepath.Join(staticDir, "assets"))
	r.GET("/", func(ctx *gin.Context) {
		ctx.File(filepath.Join(staticDir, "index.html"))
	})
	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, "资源不存在")
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File(filepath.Join(staticDir, "index.html"))
	})

	return r
}
