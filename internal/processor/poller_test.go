package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scoutline/leadscore/internal/database"
	"github.com/scoutline/leadscore/internal/domain"
	"github.com/scoutline/leadscore/internal/scoring"
	"github.com/scoutline/leadscore/internal/signals"
)

type fakePostingsStore struct {
	pending []*database.PostingRow

	listErr       error
	markScoredErr error

	scoredIDs    []int
	scoredRunID  string
	skippedIDs   map[int]domain.SkipReason
	skippedRunID string
}

func newFakePostingsStore(rows ...*database.PostingRow) *fakePostingsStore {
	return &fakePostingsStore{
		pending:    rows,
		skippedIDs: make(map[int]domain.SkipReason),
	}
}

func (s *fakePostingsStore) ListPending(ctx context.Context, limit int) ([]*database.PostingRow, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakePostingsStore) MarkScored(ctx context.Context, ids []int, runID string, scoredAt time.Time) error {
	if s.markScoredErr != nil {
		return s.markScoredErr
	}
	s.scoredIDs = append(s.scoredIDs, ids...)
	s.scoredRunID = runID
	return nil
}

func (s *fakePostingsStore) MarkSkipped(ctx context.Context, id int, runID string, reason domain.SkipReason) error {
	s.skippedIDs[id] = reason
	s.skippedRunID = runID
	return nil
}

type fakeLeadsStore struct {
	upsertErr error
	leads     map[string]*domain.CompanyLead
	upserts   int
}

func newFakeLeadsStore() *fakeLeadsStore {
	return &fakeLeadsStore{leads: make(map[string]*domain.CompanyLead)}
}

func (s *fakeLeadsStore) Upsert(ctx context.Context, lead *domain.CompanyLead) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts++
	s.leads[lead.CompanyKey] = lead
	return nil
}

func newTestPoller(postings *fakePostingsStore, leads *fakeLeadsStore, config PollerConfig) *Poller {
	logger := &testLogger{}
	batch := NewBatchProcessor(
		signals.NewExtractor(nil),
		scoring.NewScorer(nil),
		testProvider(),
		2,
		logger,
	)
	return NewPoller(postings, leads, batch, testProvider(), logger, config)
}

func pendingRow(id int, company, title, description string) *database.PostingRow {
	return &database.PostingRow{
		ID:          id,
		CompanyName: company,
		Title:       title,
		Description: description,
		Status:      database.PostingStatusPending,
		CreatedAt:   time.Now().Add(-time.Minute),
	}
}

func TestPollerProcessPending(t *testing.T) {
	postings := newFakePostingsStore(
		pendingRow(1, "Acme Plumbing", "Plumber", "Start immediately, we're expanding."),
		pendingRow(2, "Acme Plumbing", "Dispatcher", ""),
		pendingRow(3, "", "", ""),
	)
	postings.pending[2].SourceURL = "https://example.com/jobs/3"
	leads := newFakeLeadsStore()
	poller := newTestPoller(postings, leads, PollerConfig{BatchSize: 10, PollInterval: time.Hour})

	if err := poller.processPending(context.Background()); err != nil {
		t.Fatalf("processPending() error = %v", err)
	}

	if leads.upserts != 1 {
		t.Fatalf("upserts = %d, want 1", leads.upserts)
	}
	lead, ok := leads.leads["acme plumbing"]
	if !ok {
		t.Fatal("no lead stored for acme plumbing")
	}
	if lead.Aggregate.PostingCount != 2 {
		t.Errorf("PostingCount = %d, want 2", lead.Aggregate.PostingCount)
	}

	if len(postings.scoredIDs) != 2 {
		t.Fatalf("scored IDs = %v, want two", postings.scoredIDs)
	}
	for _, id := range postings.scoredIDs {
		if id != 1 && id != 2 {
			t.Errorf("unexpected scored ID %d", id)
		}
	}
	if reason, ok := postings.skippedIDs[3]; !ok || reason != domain.SkipReasonMalformed {
		t.Errorf("skippedIDs = %v, want posting 3 marked malformed", postings.skippedIDs)
	}
	if postings.scoredRunID == "" || postings.scoredRunID != postings.skippedRunID {
		t.Errorf("run IDs differ: scored %q, skipped %q", postings.scoredRunID, postings.skippedRunID)
	}
	if lead.RunID != postings.scoredRunID {
		t.Errorf("lead RunID = %q, want %q", lead.RunID, postings.scoredRunID)
	}
}

func TestPollerNoPendingPostings(t *testing.T) {
	postings := newFakePostingsStore()
	leads := newFakeLeadsStore()
	poller := newTestPoller(postings, leads, PollerConfig{})

	if err := poller.processPending(context.Background()); err != nil {
		t.Fatalf("processPending() error = %v", err)
	}
	if leads.upserts != 0 || len(postings.scoredIDs) != 0 {
		t.Errorf("empty queue caused writes: upserts=%d scored=%v", leads.upserts, postings.scoredIDs)
	}
}

func TestPollerListError(t *testing.T) {
	postings := newFakePostingsStore()
	postings.listErr = errors.New("connection refused")
	poller := newTestPoller(postings, newFakeLeadsStore(), PollerConfig{})

	if err := poller.processPending(context.Background()); err == nil {
		t.Fatal("processPending() = nil, want error")
	}
}

func TestPollerUpsertErrorFailsRun(t *testing.T) {
	postings := newFakePostingsStore(
		pendingRow(1, "Acme Plumbing", "Plumber", ""),
	)
	leads := newFakeLeadsStore()
	leads.upsertErr = errors.New("deadlock detected")
	poller := newTestPoller(postings, leads, PollerConfig{})

	if err := poller.processPending(context.Background()); err == nil {
		t.Fatal("processPending() = nil, want error")
	}
	if len(postings.scoredIDs) != 0 {
		t.Errorf("postings marked scored despite failed persist: %v", postings.scoredIDs)
	}
}

func TestPollerMarkScoredErrorDoesNotFailRun(t *testing.T) {
	// Marking failures leave postings pending for the next poll; lead
	// upserts are idempotent per company key, so re-scoring is safe.
	postings := newFakePostingsStore(
		pendingRow(1, "Acme Plumbing", "Plumber", ""),
	)
	postings.markScoredErr = errors.New("connection reset")
	leads := newFakeLeadsStore()
	poller := newTestPoller(postings, leads, PollerConfig{})

	if err := poller.processPending(context.Background()); err != nil {
		t.Fatalf("processPending() error = %v, want nil", err)
	}
	if leads.upserts != 1 {
		t.Errorf("upserts = %d, want 1", leads.upserts)
	}
}

func TestPollerMinPersistScore(t *testing.T) {
	postings := newFakePostingsStore(
		pendingRow(1, "Pixel Studio", "Web Developer", "Update our website."),
		pendingRow(2, "Acme Plumbing", "Plumber", "We're expanding, start immediately, need help ASAP."),
	)
	leads := newFakeLeadsStore()
	poller := newTestPoller(postings, leads, PollerConfig{MinPersistScore: 40})

	if err := poller.processPending(context.Background()); err != nil {
		t.Fatalf("processPending() error = %v", err)
	}

	if _, ok := leads.leads["pixel studio"]; ok {
		t.Error("zero-score company persisted below the floor")
	}
	if _, ok := leads.leads["acme plumbing"]; !ok {
		t.Errorf("scoring company not persisted: %v", leads.leads)
	}
	// Both postings are still marked scored.
	if len(postings.scoredIDs) != 2 {
		t.Errorf("scored IDs = %v, want both rows", postings.scoredIDs)
	}
}

func TestPollerBatchSizeLimit(t *testing.T) {
	postings := newFakePostingsStore(
		pendingRow(1, "Acme Plumbing", "Plumber", ""),
		pendingRow(2, "Zenith Roofing", "Roofer", ""),
		pendingRow(3, "Midway Electric", "Electrician", ""),
	)
	leads := newFakeLeadsStore()
	poller := newTestPoller(postings, leads, PollerConfig{BatchSize: 2})

	if err := poller.processPending(context.Background()); err != nil {
		t.Fatalf("processPending() error = %v", err)
	}
	if len(postings.scoredIDs) != 2 {
		t.Errorf("scored IDs = %v, want the first two rows only", postings.scoredIDs)
	}
}

func TestPollerStartStop(t *testing.T) {
	postings := newFakePostingsStore()
	poller := newTestPoller(postings, newFakeLeadsStore(), PollerConfig{PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := poller.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !poller.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := poller.Start(ctx); err == nil {
		t.Error("second Start() = nil, want error")
	}

	poller.Stop()
	if poller.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}

	stats := poller.GetStats()
	if stats["batch_size"] != defaultPollBatchSize {
		t.Errorf("stats batch_size = %v, want %d", stats["batch_size"], defaultPollBatchSize)
	}
}

func TestPollerRateLimiterConfigured(t *testing.T) {
	poller := newTestPoller(newFakePostingsStore(), newFakeLeadsStore(), PollerConfig{PersistRPS: 5})
	if poller.rateLimiter == nil {
		t.Error("rateLimiter not built when PersistRPS > 0")
	}

	poller = newTestPoller(newFakePostingsStore(), newFakeLeadsStore(), PollerConfig{})
	if poller.rateLimiter != nil {
		t.Error("rateLimiter built when PersistRPS is zero")
	}
}
