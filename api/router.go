package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/distill/api/handler"
	"github.com/use-agent/distill/api/middleware"
	"github.com/use-agent/distill/breaker"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/notify"
	"github.com/use-agent/distill/rank"
	"github.com/use-agent/distill/search"
	"github.com/use-agent/distill/summarize"
)

// Deps bundles the shared components the router wires into handlers.
type Deps struct {
	Pipeline   *cleaner.Pipeline
	Summarizer *summarize.Service
	Breaker    *breaker.Breaker
	Fetcher    *search.Client
	Ranker     *rank.Ranker
	Cache      *handler.ResponseCache
	Sink       *notify.Sink
	StartTime  time.Time
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(deps.Summarizer, deps.Breaker, deps.StartTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/clean", handler.Clean(deps.Pipeline, deps.Cache, deps.Sink))
	protected.POST("/batch/clean", handler.Batch(deps.Pipeline, deps.Fetcher, deps.Sink))
	protected.POST("/search", handler.Search(deps.Fetcher, deps.Ranker))

	return r
}
