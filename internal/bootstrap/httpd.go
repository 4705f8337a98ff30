package bootstrap

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/scoutline/leadscore/internal/api"
	"github.com/scoutline/leadscore/internal/config"
	infragin "github.com/scoutline/leadscore/internal/infra/gin"
	infralogger "github.com/scoutline/leadscore/internal/infra/logger"
	"github.com/scoutline/leadscore/internal/logging"
	"github.com/scoutline/leadscore/internal/processor"
	"github.com/scoutline/leadscore/internal/scoring"
	"github.com/scoutline/leadscore/internal/signals"
	"github.com/scoutline/leadscore/internal/telemetry"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	defaultConcurrency = 10
)

// HTTPComponents holds all components needed for the HTTP server.
type HTTPComponents struct {
	DB        *sqlx.DB
	Handler   *api.Handler
	Server    *infragin.Server
	Poller    *processor.Poller
	Telemetry *telemetry.Provider
	InfraLog  infralogger.Logger
}

// NewHTTPComponents creates all components for the HTTP server.
func NewHTTPComponents(cfg *config.Config, logger infralogger.Logger) (*HTTPComponents, error) {
	dbComps, err := SetupDatabase(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	tel := telemetry.NewProvider()
	svcLog := logging.NewAdapter(logger)

	extractor := signals.NewExtractor(svcLog)
	scorer := scoring.NewScorer(svcLog)
	logger.Info("Scoring pipeline initialized",
		infralogger.String("vocab_version", signals.VocabVersion),
	)

	concurrency := cfg.Service.Concurrency
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}
	batchProcessor := processor.NewBatchProcessor(extractor, scorer, tel, concurrency, svcLog)
	logger.Info("Batch processor initialized", infralogger.Int("concurrency", concurrency))

	poller := processor.NewPoller(
		dbComps.PostingsRepo,
		dbComps.LeadsRepo,
		batchProcessor,
		tel,
		svcLog,
		processor.PollerConfig{
			BatchSize:       cfg.Service.BatchSize,
			PollInterval:    cfg.Service.PollInterval,
			PersistRPS:      cfg.Scoring.RateLimit,
			MinPersistScore: cfg.Scoring.MinFinalScore,
		},
	)

	handler := api.NewHandler(
		batchProcessor,
		dbComps.PostingsRepo,
		dbComps.LeadsRepo,
		dbComps.DB,
		svcLog,
	)

	serverConfig := api.ServerConfig{
		Port:         cfg.Service.Port,
		ReadTimeout:  defaultHTTPTimeout,
		WriteTimeout: defaultHTTPTimeout,
		Debug:        cfg.Service.Debug,
	}
	server := api.NewServer(handler, serverConfig, cfg, logger, dbComps.DB.Ping)

	// Prometheus scrape endpoint sits outside the authenticated API group
	server.Router().GET("/metrics", gin.WrapH(tel.Handler()))

	return &HTTPComponents{
		DB:        dbComps.DB,
		Handler:   handler,
		Server:    server,
		Poller:    poller,
		Telemetry: tel,
		InfraLog:  logger,
	}, nil
}

// HTTPShutdownTimeout returns the timeout for HTTP server graceful shutdown.
func HTTPShutdownTimeout() time.Duration {
	return defaultHTTPTimeout
}
