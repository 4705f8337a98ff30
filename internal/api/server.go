package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scoutline/leadscore/internal/config"
	infragin "github.com/scoutline/leadscore/internal/infra/gin"
	infralogger "github.com/scoutline/leadscore/internal/infra/logger"
)

// Default timeout values.
const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// NewServer creates a new HTTP server using the infra gin package.
// dbPing is registered as the database health check on /health.
func NewServer(handler *Handler, serverCfg ServerConfig, cfg *config.Config, infraLog infralogger.Logger, dbPing func() error) *infragin.Server {
	// Set timeout defaults if not provided
	readTimeout := serverCfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = defaultReadTimeout
	}
	writeTimeout := serverCfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = defaultWriteTimeout
	}

	builder := infragin.NewServerBuilder(cfg.Service.Name, serverCfg.Port).
		WithLogger(infraLog).
		WithDebug(serverCfg.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(readTimeout, writeTimeout, defaultIdleTimeout).
		WithRoutes(func(router *gin.Engine) {
			// Setup service-specific routes (health routes added by builder)
			SetupServiceRoutes(router, handler, cfg)
		})
	if dbPing != nil {
		builder = builder.WithDatabaseHealthCheck(dbPing)
	}

	return builder.Build()
}

// SetupServiceRoutes configures service-specific API routes (not health routes).
// Health routes are handled by the infra gin package.
func SetupServiceRoutes(router *gin.Engine, handler *Handler, cfg *config.Config) {
	// API v1 routes - protected with JWT
	v1 := infragin.ProtectedGroup(router, "/api/v1", cfg.Auth.JWTSecret)

	// Scoring endpoints
	v1.POST("/score", handler.ScoreBatch) // POST /api/v1/score

	// Posting ingestion for the scraper
	v1.POST("/postings", handler.IngestPostings) // POST /api/v1/postings

	// Lead endpoints
	leads := v1.Group("/leads")
	leads.GET("", handler.ListLeads)              // GET /api/v1/leads
	leads.GET("/:company_key", handler.GetLead)   // GET /api/v1/leads/:company_key

	// Statistics endpoints
	stats := v1.Group("/stats")
	stats.GET("/tiers", handler.GetTierStats)       // GET /api/v1/stats/tiers
	stats.GET("/postings", handler.GetPostingStats) // GET /api/v1/stats/postings

	// Vocabulary version
	v1.GET("/vocab", handler.GetVocabInfo) // GET /api/v1/vocab

	// Readiness endpoint stays unauthenticated
	router.GET("/ready", handler.ReadyCheck)
}
