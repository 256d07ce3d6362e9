package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clearcart/trustlens/api/handler"
	"github.com/clearcart/trustlens/api/middleware"
	"github.com/clearcart/trustlens/cache"
	"github.com/clearcart/trustlens/config"
	"github.com/clearcart/trustlens/fetch"
	"github.com/clearcart/trustlens/report"
	"github.com/clearcart/trustlens/store"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(asm *report.Assembler, gw *fetch.Gateway, st store.Store, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Analysis
	protected.POST("/analyze", handler.Analyze(asm, cc))

	// Price history
	protected.GET("/price-history", handler.PriceHistory(gw, st))

	return r
}
