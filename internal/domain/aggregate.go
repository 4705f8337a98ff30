package domain

// CompanyAggregate is the union of all signal records extracted for one
// company within a scoring run. It is built during a single aggregation
// pass and immutable afterwards.
//
// CompanyKey is the canonical grouping key (trimmed, whitespace-collapsed,
// case-folded, diacritics stripped). CompanyName preserves the casing of
// the first posting seen for display.
type CompanyAggregate struct {
	CompanyKey           string             `json:"company_key"`
	CompanyName          string             `json:"company_name"`
	PostingCount         int                `json:"posting_count"`
	Categories           []CategoryTag      `json:"categories"`
	ExpansionHits        []string           `json:"expansion_hits"`
	RevenueRoleHits      []RevenueRoleTag   `json:"revenue_role_hits"`
	StressHits           []string           `json:"stress_hits"`
	MaturityHits         []MaturityCategory `json:"maturity_hits"`
	StructuredRecruiting bool               `json:"structured_recruiting"`
	Locations            []string           `json:"locations"`
	MaxVolumeNumber      *int               `json:"max_volume_number,omitempty"`
	Contacts             []string           `json:"contacts"`
}

// CrossFunctional reports whether the company is hiring across two or more
// job-function categories.
func (a CompanyAggregate) CrossFunctional() bool {
	return len(a.Categories) >= minCrossFunctionalCategories
}

// MultiLocation reports whether postings span two or more distinct
// normalized locations.
func (a CompanyAggregate) MultiLocation() bool {
	return len(a.Locations) >= minMultiLocationCount
}

const (
	minCrossFunctionalCategories = 2
	minMultiLocationCount        = 2
)
