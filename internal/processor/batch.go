// Package processor runs scoring pipelines over batches of job postings.
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scoutline/leadscore/internal/aggregate"
	"github.com/scoutline/leadscore/internal/domain"
	"github.com/scoutline/leadscore/internal/scoring"
	"github.com/scoutline/leadscore/internal/signals"
	"github.com/scoutline/leadscore/internal/telemetry"
)

const defaultConcurrency = 10

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// SkippedItem records one input posting excluded from a run. Index refers
// to the posting's position in the input batch.
type SkippedItem struct {
	Index   int               `json:"index"`
	Posting domain.JobPosting `json:"posting"`
	Reason  domain.SkipReason `json:"reason"`
}

// RunResult is the outcome of one scoring run over a posting batch.
type RunResult struct {
	RunID        string                `json:"run_id"`
	VocabVersion string                `json:"vocab_version"`
	StartedAt    time.Time             `json:"started_at"`
	Duration     time.Duration         `json:"duration"`
	PostingCount int                   `json:"posting_count"`
	CompanyCount int                   `json:"company_count"`
	Skipped      []SkippedItem         `json:"skipped,omitempty"`
	Leads        []*domain.CompanyLead `json:"leads"`
}

// BatchProcessor runs the scoring pipeline over posting batches: signal
// extraction in a worker pool, aggregation by canonical company key, then
// scoring. Extraction is pure per posting, so worker ordering cannot
// change the result.
type BatchProcessor struct {
	extractor   *signals.Extractor
	scorer      *scoring.Scorer
	telemetry   *telemetry.Provider
	concurrency int
	logger      Logger
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(
	extractor *signals.Extractor,
	scorer *scoring.Scorer,
	tel *telemetry.Provider,
	concurrency int,
	logger Logger,
) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &BatchProcessor{
		extractor:   extractor,
		scorer:      scorer,
		telemetry:   tel,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process scores a batch of postings and returns the full run result.
// Malformed postings are skipped with a warning; the run continues over
// the rest of the batch. An empty batch yields an empty result, not an
// error.
func (b *BatchProcessor) Process(ctx context.Context, postings []domain.JobPosting) (*RunResult, error) {
	result := &RunResult{
		RunID:        uuid.NewString(),
		VocabVersion: signals.VocabVersion,
		StartedAt:    time.Now(),
		PostingCount: len(postings),
		Leads:        []*domain.CompanyLead{},
	}

	ctx, span := b.telemetry.StartSpan(ctx, "processor.Process")
	defer span.End()

	if len(postings) == 0 {
		b.logger.Debug("Empty batch, nothing to score", "run_id", result.RunID)
		return result, nil
	}

	b.logger.Info("Starting scoring run",
		"run_id", result.RunID,
		"batch_size", len(postings),
		"concurrency", b.concurrency,
		"vocab_version", result.VocabVersion,
	)

	records := b.extractAll(ctx, postings, result)

	// Aggregation is a commutative union fold, so the record order the
	// workers produced does not matter.
	acc := aggregate.NewAccumulator()
	for _, rec := range records {
		acc.Add(rec.posting.EffectiveCompanyName(), rec.record)
	}
	result.CompanyCount = acc.Len()

	for _, agg := range acc.Aggregates() {
		breakdown := b.scorer.Score(agg)

		lead := &domain.CompanyLead{
			CompanyKey:  agg.CompanyKey,
			CompanyName: agg.CompanyName,
			FinalScore:  breakdown.FinalScore,
			Tier:        breakdown.Tier,
			Aggregate:   agg,
			Breakdown:   breakdown,
			RunID:       result.RunID,
			ScoredAt:    time.Now(),
		}
		result.Leads = append(result.Leads, lead)

		b.telemetry.RecordCompanyScore(ctx, string(breakdown.Tier), multiplierNames(breakdown), breakdown.FinalScore)
	}

	result.Duration = time.Since(result.StartedAt)
	b.telemetry.RecordRun(ctx, len(postings), result.Duration)

	b.logger.Info("Scoring run complete",
		"run_id", result.RunID,
		"postings", result.PostingCount,
		"skipped", len(result.Skipped),
		"companies", result.CompanyCount,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

type extractedRecord struct {
	posting domain.JobPosting
	record  domain.SignalRecord
}

type extractJob struct {
	index   int
	posting domain.JobPosting
}

// extractAll runs signal extraction over the batch with a worker pool and
// collects skipped postings into the result.
func (b *BatchProcessor) extractAll(ctx context.Context, postings []domain.JobPosting, result *RunResult) []extractedRecord {
	jobs := make(chan extractJob, len(postings))
	records := make(chan extractedRecord, len(postings))

	queued := 0
	for i, p := range postings {
		if p.IsMalformed() {
			result.Skipped = append(result.Skipped, SkippedItem{
				Index:   i,
				Posting: p,
				Reason:  domain.SkipReasonMalformed,
			})
			b.telemetry.RecordSkip(ctx, string(domain.SkipReasonMalformed))
			b.logger.Warn("Skipping malformed posting",
				"run_id", result.RunID,
				"index", i,
				"source_url", p.SourceURL,
			)
			continue
		}
		jobs <- extractJob{index: i, posting: p}
		queued++
	}
	close(jobs)

	b.telemetry.SetActiveWorkers(b.concurrency)
	defer b.telemetry.SetActiveWorkers(0)

	var wg sync.WaitGroup
	for i := 0; i < b.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				start := time.Now()
				rec := b.extractor.Extract(job.posting)
				b.telemetry.RecordPosting(ctx, job.posting.SourceURL, time.Since(start))

				records <- extractedRecord{posting: job.posting, record: rec}
			}
		}()
	}

	wg.Wait()
	close(records)

	out := make([]extractedRecord, 0, queued)
	for rec := range records {
		out = append(out, rec)
	}

	return out
}

func multiplierNames(breakdown domain.ScoreBreakdown) []string {
	names := make([]string, 0, len(breakdown.MultipliersApplied))
	for _, m := range breakdown.MultipliersApplied {
		names = append(names, m.Name)
	}
	return names
}
