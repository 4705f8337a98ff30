// Package scoring turns a company aggregate into a weighted, multiplied,
// capped growth score and its tier. The rules are fixed hand-set
// heuristics, not calibrated weights; the point is determinism and
// auditability, not statistical fit.
package scoring

import (
	"github.com/scoutline/leadscore/internal/domain"
	"github.com/scoutline/leadscore/internal/logging"
)

// Sub-score weights. Each sub-score is clipped to 0..100 before weighting,
// so the base score is also in 0..100.
const (
	weightHiringVelocity = 0.30
	weightGrowthSignals  = 0.40
	weightExpansion      = 0.20
	weightMaturity       = 0.10
)

// Hiring-velocity step function on posting count.
const (
	velocityPoints2 = 30
	velocityPoints3 = 50
	velocityPoints5 = 70
	velocityPoints8 = 100

	velocityThreshold2 = 2
	velocityThreshold3 = 3
	velocityThreshold5 = 5
	velocityThreshold8 = 8
)

// Growth-signal points.
const (
	crossFunctionalPoints   = 30
	revenueRolePointsPer    = 10
	revenueRolePointsCap    = 30
	highVolumePoints        = 20
	highVolumeMinimum       = 5
	stressPointsPerPhrase   = 10
	stressPointsCap         = 20
	stressMultiplierMinHits = 2
)

// Expansion-indicator points.
const (
	expansionLanguagePoints = 50
	multiLocationPoints     = 30
)

// Operational-maturity points.
const (
	maturityPointsPerCategory  = 10
	maturityCategoryPointsCap  = 40
	structuredRecruitingPoints = 40
)

// Multiplier factors, applied in this documented order. Multiplication is
// commutative, so the order is a reporting convention, not a numeric one.
const (
	expansionMultiplier       = 2.0
	crossFunctionalMultiplier = 1.5
	capacityStressMultiplier  = 1.3
)

// Multiplier names recorded in the breakdown for auditability.
const (
	MultiplierExpansion       = "expansion_language"
	MultiplierCrossFunctional = "cross_functional_hiring"
	MultiplierCapacityStress  = "capacity_stress"
)

const maxScore = 100

// Scorer computes score breakdowns from company aggregates. Stateless and
// safe for concurrent use.
type Scorer struct {
	logger logging.Logger
}

// NewScorer creates a scorer.
func NewScorer(logger logging.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Score computes the full breakdown for one aggregate. An aggregate with
// all-empty signal sets scores 0 with no multipliers. The caller is
// responsible for never passing a zero-posting aggregate; the aggregator
// cannot produce one.
func (s *Scorer) Score(agg domain.CompanyAggregate) domain.ScoreBreakdown {
	velocity := hiringVelocityPoints(agg.PostingCount)
	growth := growthSignalPoints(agg)
	expansion := expansionPoints(agg)
	maturity := maturityPoints(agg)

	base := weightHiringVelocity*float64(velocity) +
		weightGrowthSignals*float64(growth) +
		weightExpansion*float64(expansion) +
		weightMaturity*float64(maturity)

	multipliers := applicableMultipliers(agg)

	final := base
	for _, m := range multipliers {
		final *= m.Factor
	}
	if final > maxScore {
		final = maxScore
	}

	breakdown := domain.ScoreBreakdown{
		CompanyKey:           agg.CompanyKey,
		CompanyName:          agg.CompanyName,
		HiringVelocityPoints: velocity,
		GrowthSignalPoints:   growth,
		ExpansionPoints:      expansion,
		MaturityPoints:       maturity,
		BaseScore:            base,
		MultipliersApplied:   multipliers,
		FinalScore:           final,
		Tier:                 TierFor(final),
	}

	if s.logger != nil {
		s.logger.Debug("company scored",
			"company", agg.CompanyName,
			"posting_count", agg.PostingCount,
			"base_score", base,
			"final_score", final,
			"tier", string(breakdown.Tier),
			"multipliers", len(multipliers),
		)
	}

	return breakdown
}

// hiringVelocityPoints is a monotone step function on posting count. A
// single posting carries no velocity signal.
func hiringVelocityPoints(postingCount int) int {
	switch {
	case postingCount >= velocityThreshold8:
		return velocityPoints8
	case postingCount >= velocityThreshold5:
		return velocityPoints5
	case postingCount >= velocityThreshold3:
		return velocityPoints3
	case postingCount >= velocityThreshold2:
		return velocityPoints2
	default:
		return 0
	}
}

// growthSignalPoints sums cross-functional hiring, revenue-role breadth,
// high-volume hiring, and capacity stress, clipped to 100. Breadth signals
// are computed on the aggregate; summing them per posting would double
// count.
func growthSignalPoints(agg domain.CompanyAggregate) int {
	points := 0

	if agg.CrossFunctional() {
		points += crossFunctionalPoints
	}

	rolePoints := len(agg.RevenueRoleHits) * revenueRolePointsPer
	if rolePoints > revenueRolePointsCap {
		rolePoints = revenueRolePointsCap
	}
	points += rolePoints

	if agg.MaxVolumeNumber != nil && *agg.MaxVolumeNumber >= highVolumeMinimum {
		points += highVolumePoints
	}

	stressPoints := len(agg.StressHits) * stressPointsPerPhrase
	if stressPoints > stressPointsCap {
		stressPoints = stressPointsCap
	}
	points += stressPoints

	return clipPoints(points)
}

// expansionPoints sums expansion language and multi-location presence,
// clipped to 100.
func expansionPoints(agg domain.CompanyAggregate) int {
	points := 0
	if len(agg.ExpansionHits) > 0 {
		points += expansionLanguagePoints
	}
	if agg.MultiLocation() {
		points += multiLocationPoints
	}
	return clipPoints(points)
}

// maturityPoints sums tooling-category mentions and structured-recruiting
// language, clipped to 100.
func maturityPoints(agg domain.CompanyAggregate) int {
	points := len(agg.MaturityHits) * maturityPointsPerCategory
	if points > maturityCategoryPointsCap {
		points = maturityCategoryPointsCap
	}
	if agg.StructuredRecruiting {
		points += structuredRecruitingPoints
	}
	return clipPoints(points)
}

// applicableMultipliers returns the multipliers whose triggers hold, in the
// fixed documented order.
func applicableMultipliers(agg domain.CompanyAggregate) []domain.AppliedMultiplier {
	var multipliers []domain.AppliedMultiplier
	if len(agg.ExpansionHits) > 0 {
		multipliers = append(multipliers, domain.AppliedMultiplier{
			Name: MultiplierExpansion, Factor: expansionMultiplier,
		})
	}
	if agg.CrossFunctional() {
		multipliers = append(multipliers, domain.AppliedMultiplier{
			Name: MultiplierCrossFunctional, Factor: crossFunctionalMultiplier,
		})
	}
	if len(agg.StressHits) >= stressMultiplierMinHits {
		multipliers = append(multipliers, domain.AppliedMultiplier{
			Name: MultiplierCapacityStress, Factor: capacityStressMultiplier,
		})
	}
	return multipliers
}

func clipPoints(points int) int {
	if points < 0 {
		return 0
	}
	if points > maxScore {
		return maxScore
	}
	return points
}
