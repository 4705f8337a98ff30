package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scoutline/leadscore/internal/database"
	"github.com/scoutline/leadscore/internal/domain"
	"github.com/scoutline/leadscore/internal/telemetry"
)

const (
	// Default poll interval
	defaultPollIntervalSeconds = 60
	// Default batch size per poll
	defaultPollBatchSize = 500
)

// PostingsStore defines the posting persistence operations the poller needs
type PostingsStore interface {
	// ListPending retrieves postings awaiting scoring, oldest first
	ListPending(ctx context.Context, limit int) ([]*database.PostingRow, error)

	// MarkScored marks postings as scored under a run
	MarkScored(ctx context.Context, ids []int, runID string, scoredAt time.Time) error

	// MarkSkipped marks a posting as skipped with a reason
	MarkSkipped(ctx context.Context, id int, runID string, reason domain.SkipReason) error
}

// LeadsStore defines the lead persistence operations the poller needs
type LeadsStore interface {
	// Upsert inserts or replaces the lead for a company key
	Upsert(ctx context.Context, lead *domain.CompanyLead) error
}

// Poller polls the postings store for pending postings, scores them, and
// persists the resulting company leads
type Poller struct {
	postings       PostingsStore
	leads          LeadsStore
	batchProcessor *BatchProcessor
	telemetry      *telemetry.Provider
	rateLimiter    *RateLimiter
	logger         Logger

	batchSize       int
	pollInterval    time.Duration
	minPersistScore float64
	running         bool
	stopChan        chan struct{}
}

// PollerConfig holds poller configuration
type PollerConfig struct {
	BatchSize    int
	PollInterval time.Duration
	// PersistRPS caps lead upserts per second. Zero disables limiting.
	PersistRPS int
	// MinPersistScore drops companies below this score from persistence.
	// Their postings are still marked scored. Zero persists everything.
	MinPersistScore float64
}

// NewPoller creates a new poller
func NewPoller(
	postings PostingsStore,
	leads LeadsStore,
	batchProcessor *BatchProcessor,
	tel *telemetry.Provider,
	logger Logger,
	config PollerConfig,
) *Poller {
	if config.BatchSize <= 0 {
		config.BatchSize = defaultPollBatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollIntervalSeconds * time.Second
	}

	var limiter *RateLimiter
	if config.PersistRPS > 0 {
		limiter = NewRateLimiter(config.PersistRPS, config.PersistRPS, logger)
	}

	return &Poller{
		postings:        postings,
		leads:           leads,
		batchProcessor:  batchProcessor,
		telemetry:       tel,
		rateLimiter:     limiter,
		logger:          logger,
		batchSize:       config.BatchSize,
		pollInterval:    config.PollInterval,
		minPersistScore: config.MinPersistScore,
		stopChan:        make(chan struct{}),
	}
}

// Start starts the poller
func (p *Poller) Start(ctx context.Context) error {
	if p.running {
		return errors.New("poller is already running")
	}

	p.running = true
	p.logger.Info("Poller starting",
		"batch_size", p.batchSize,
		"poll_interval", p.pollInterval,
	)

	go p.run(ctx)

	return nil
}

// Stop stops the poller
func (p *Poller) Stop() {
	if !p.running {
		return
	}

	p.logger.Info("Poller stopping")
	close(p.stopChan)
	p.running = false
}

// run is the main polling loop
func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Process immediately on start
	if err := p.processPending(ctx); err != nil {
		p.logger.Error("Failed to process pending postings on startup", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped due to context cancellation")
			return
		case <-p.stopChan:
			p.logger.Info("Poller stopped")
			return
		case <-ticker.C:
			if err := p.processPending(ctx); err != nil {
				p.logger.Error("Failed to process pending postings", "error", err)
			}
		}
	}
}

// processPending scores one batch of pending postings
func (p *Poller) processPending(ctx context.Context) error {
	p.logger.Debug("Polling for pending postings", "batch_size", p.batchSize)

	rows, err := p.postings.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending postings: %w", err)
	}

	p.telemetry.SetQueueDepth(len(rows))

	if len(rows) == 0 {
		p.logger.Debug("No pending postings found")
		return nil
	}

	p.logger.Info("Found pending postings", "count", len(rows))

	for _, row := range rows {
		p.telemetry.RecordPollerLag(ctx, row.CreatedAt)
	}

	postings := make([]domain.JobPosting, len(rows))
	for i, row := range rows {
		postings[i] = row.Posting()
	}

	result, err := p.batchProcessor.Process(ctx, postings)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err = p.persistLeads(ctx, result); err != nil {
		return fmt.Errorf("failed to persist leads: %w", err)
	}

	p.markPostings(ctx, rows, result)

	return nil
}

// persistLeads upserts every scored company from the run that clears the
// persistence floor
func (p *Poller) persistLeads(ctx context.Context, result *RunResult) error {
	persisted := 0
	for _, lead := range result.Leads {
		if lead.FinalScore < p.minPersistScore {
			p.logger.Debug("Lead below persistence floor",
				"company_key", lead.CompanyKey,
				"final_score", lead.FinalScore,
				"min_score", p.minPersistScore,
			)
			continue
		}

		if p.rateLimiter != nil {
			if err := p.rateLimiter.Wait(ctx); err != nil {
				return err
			}
		}

		if err := p.leads.Upsert(ctx, lead); err != nil {
			return fmt.Errorf("failed to upsert lead for %s: %w", lead.CompanyKey, err)
		}
		persisted++
	}

	p.logger.Info("Persisted company leads",
		"run_id", result.RunID,
		"count", persisted,
		"scored", len(result.Leads),
	)

	return nil
}

// markPostings updates posting statuses after a run. Marking failures are
// logged and do not fail the run; the postings stay pending and are
// re-scored on the next poll, which is safe because lead upserts are
// idempotent per company key.
func (p *Poller) markPostings(ctx context.Context, rows []*database.PostingRow, result *RunResult) {
	skippedIndexes := make(map[int]domain.SkipReason, len(result.Skipped))
	for _, item := range result.Skipped {
		skippedIndexes[item.Index] = item.Reason
	}

	scoredIDs := make([]int, 0, len(rows))
	for i, row := range rows {
		if reason, ok := skippedIndexes[i]; ok {
			if err := p.postings.MarkSkipped(ctx, row.ID, result.RunID, reason); err != nil {
				p.logger.Error("Failed to mark posting skipped",
					"posting_id", row.ID,
					"error", err,
				)
			}
			continue
		}
		scoredIDs = append(scoredIDs, row.ID)
	}

	if len(scoredIDs) == 0 {
		return
	}

	if err := p.postings.MarkScored(ctx, scoredIDs, result.RunID, time.Now()); err != nil {
		p.logger.Error("Failed to mark postings scored",
			"run_id", result.RunID,
			"count", len(scoredIDs),
			"error", err,
		)
	}
}

// IsRunning returns whether the poller is currently running
func (p *Poller) IsRunning() bool {
	return p.running
}

// GetStats returns poller statistics
func (p *Poller) GetStats() map[string]any {
	return map[string]any{
		"running":       p.running,
		"batch_size":    p.batchSize,
		"poll_interval": p.pollInterval.String(),
	}
}
