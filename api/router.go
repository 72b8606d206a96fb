package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afbaseball/trureport/api/handler"
	"github.com/afbaseball/trureport/api/middleware"
	"github.com/afbaseball/trureport/catalog"
	"github.com/afbaseball/trureport/config"
	"github.com/afbaseball/trureport/report"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(gen *report.Generator, cat *catalog.Service, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(cfg, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Reports
	protected.POST("/reports/:type", handler.Reports(gen, cfg))

	// Catalog
	protected.GET("/catalog/teams", handler.ListTeams(cat))
	protected.GET("/catalog/teams/:id/players", handler.ListPlayers(cat))
	protected.POST("/catalog/sync", handler.SyncCatalog(cat))

	return r
}
