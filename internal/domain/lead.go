package domain

import "time"

// CompanyLead is the persisted scoring result for one company: the
// aggregate and breakdown a dashboard needs to render the full rationale
// (which signals fired, which multipliers applied), plus run metadata.
type CompanyLead struct {
	ID          int              `db:"id"           json:"id"`
	CompanyKey  string           `db:"company_key"  json:"company_key"`
	CompanyName string           `db:"company_name" json:"company_name"`
	FinalScore  float64          `db:"final_score"  json:"final_score"`
	Tier        Tier             `db:"tier"         json:"tier"`
	Aggregate   CompanyAggregate `db:"-"            json:"aggregate"`
	Breakdown   ScoreBreakdown   `db:"-"            json:"breakdown"`
	RunID       string           `db:"run_id"       json:"run_id"`
	ScoredAt    time.Time        `db:"scored_at"    json:"scored_at"`
	CreatedAt   time.Time        `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"   json:"updated_at"`
}
