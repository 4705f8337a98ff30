// Package domain defines the core types for the leadscore service.
package domain

import (
	"strings"
	"time"
)

// UnknownCompany is the scraper's placeholder for postings without an
// identifiable company name. Postings with an empty company name but usable
// text are folded under this label rather than dropped.
const UnknownCompany = "Unknown Company"

// JobPosting is one scraped job posting. The scraper owns its identity
// (source URL); the scoring core treats it as an immutable value.
type JobPosting struct {
	CompanyName string     `db:"company_name" json:"company_name"`
	Title       string     `db:"title"        json:"title"`
	Description string     `db:"description"  json:"description"`
	Location    string     `db:"location"     json:"location"`
	SourceURL   string     `db:"source_url"   json:"source_url,omitempty"`
	PostedDate  *time.Time `db:"posted_date"  json:"posted_date,omitempty"`
}

// SkipReason identifies why a posting was excluded from a scoring run.
type SkipReason string

const (
	// SkipReasonMalformed marks a posting missing both a company name and
	// any title/description text.
	SkipReasonMalformed SkipReason = "malformed"
)

// SkippedPosting is the typed warning emitted for a posting that could not
// be scored. Skipping is not a failure; the run continues over the rest of
// the batch.
type SkippedPosting struct {
	Posting JobPosting `json:"posting"`
	Reason  SkipReason `json:"reason"`
}

// IsMalformed reports whether the posting carries neither a company name
// nor any title/description text. Such postings cannot contribute to any
// company's signals and are skipped with a warning.
func (p JobPosting) IsMalformed() bool {
	hasCompany := strings.TrimSpace(p.CompanyName) != ""
	hasText := strings.TrimSpace(p.Title) != "" || strings.TrimSpace(p.Description) != ""
	return !hasCompany && !hasText
}

// EffectiveCompanyName returns the company name to group under, falling
// back to UnknownCompany when the scraper supplied none.
func (p JobPosting) EffectiveCompanyName() string {
	if strings.TrimSpace(p.CompanyName) == "" {
		return UnknownCompany
	}
	return p.CompanyName
}
