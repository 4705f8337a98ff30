package domain

// Tier is the final lead-quality classification for a company, ordered by
// descending outreach priority.
type Tier string

// Lead tiers.
const (
	TierHot       Tier = "HOT"
	TierQualified Tier = "QUALIFIED"
	TierPotential Tier = "POTENTIAL"
	TierSkip      Tier = "SKIP"
)

// AppliedMultiplier records one multiplier that fired during scoring, for
// auditability of the final score.
type AppliedMultiplier struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
}

// ScoreBreakdown is the scoring output for one company aggregate. Sub-score
// points are each clipped to 0..100 before weighting; the final score is
// clipped to 100 once, after all multipliers.
type ScoreBreakdown struct {
	CompanyKey           string              `json:"company_key"`
	CompanyName          string              `json:"company_name"`
	HiringVelocityPoints int                 `json:"hiring_velocity_points"`
	GrowthSignalPoints   int                 `json:"growth_signal_points"`
	ExpansionPoints      int                 `json:"expansion_points"`
	MaturityPoints       int                 `json:"maturity_points"`
	BaseScore            float64             `json:"base_score"`
	MultipliersApplied   []AppliedMultiplier `json:"multipliers_applied"`
	FinalScore           float64             `json:"final_score"`
	Tier                 Tier                `json:"tier"`
}
