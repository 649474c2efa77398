package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/satisfaction/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router.
type Handlers struct {
	Votes     *handlers.VoteHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Export    *handlers.ExportHandler
	Reset     *handlers.ResetHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(allowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/votes", h.Votes.Submit)

	admin := api.Group("/admin")
	admin.POST("/login", h.Auth.Login)

	protected := admin.Group("")
	protected.Use(h.Auth.RequireSession)
	{
		protected.POST("/logout", h.Auth.Logout)

		protected.GET("/dashboard", h.Dashboard.View)
		protected.POST("/dashboard/reload", h.Dashboard.Reload)
		protected.POST("/dashboard/filter", h.Dashboard.Filter)
		protected.GET("/dashboard/page", h.Dashboard.Page)
		protected.GET("/dashboard/compare", h.Dashboard.Compare)

		protected.GET("/export", h.Export.Download)
		protected.GET("/export/clipboard", h.Export.Clipboard)
		protected.POST("/export/sheets", h.Export.Sheets)

		protected.POST("/reset/request", h.Reset.Request)
		protected.POST("/reset/confirm", h.Reset.Confirm)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", handlers.KioskHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cfg
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
