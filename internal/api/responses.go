package api

import (
	"fmt"

	"github.com/scoutline/leadscore/internal/database"
	"github.com/scoutline/leadscore/internal/domain"
	"github.com/scoutline/leadscore/internal/processor"
)

// ScoreBatchRequest represents a synchronous batch scoring request.
type ScoreBatchRequest struct {
	Postings []domain.JobPosting `json:"postings" binding:"required,min=1,max=1000"`
	Persist  bool                `json:"persist"`
}

// ScoreBatchResponse represents a batch scoring response.
type ScoreBatchResponse struct {
	RunID        string                   `json:"run_id"`
	VocabVersion string                   `json:"vocab_version"`
	PostingCount int                      `json:"posting_count"`
	CompanyCount int                      `json:"company_count"`
	DurationMs   int64                    `json:"duration_ms"`
	Skipped      []processor.SkippedItem  `json:"skipped,omitempty"`
	Leads        []*domain.CompanyLead    `json:"leads"`
}

// IngestPostingsRequest represents a posting ingestion request.
type IngestPostingsRequest struct {
	Postings []domain.JobPosting `json:"postings" binding:"required,min=1,max=1000"`
}

// IngestPostingsResponse represents a posting ingestion response.
type IngestPostingsResponse struct {
	IDs   []int `json:"ids"`
	Total int   `json:"total"`
}

// LeadsListResponse represents a list of leads with metadata.
type LeadsListResponse struct {
	Leads []*domain.CompanyLead `json:"leads"`
	Total int                   `json:"total"`
}

// TierStatsResponse represents lead counts and score spread per tier.
type TierStatsResponse struct {
	Tiers []*database.TierStat `json:"tiers"`
}

// PostingStatsResponse represents posting counts per status.
type PostingStatsResponse struct {
	Statuses map[string]int `json:"statuses"`
}

// VocabInfoResponse reports the active vocabulary version.
type VocabInfoResponse struct {
	Version string `json:"version"`
}

// toScoreBatchResponse converts a run result to an API response.
func toScoreBatchResponse(result *processor.RunResult) ScoreBatchResponse {
	return ScoreBatchResponse{
		RunID:        result.RunID,
		VocabVersion: result.VocabVersion,
		PostingCount: result.PostingCount,
		CompanyCount: result.CompanyCount,
		DurationMs:   result.Duration.Milliseconds(),
		Skipped:      result.Skipped,
		Leads:        result.Leads,
	}
}

// errInvalidQueryParam builds the error for a malformed query parameter.
func errInvalidQueryParam(name string) error {
	return fmt.Errorf("invalid %s query parameter", name)
}
