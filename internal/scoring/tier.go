package scoring

import "github.com/scoutline/leadscore/internal/domain"

// Tier thresholds. Bands are closed-open: a score equal to a threshold
// lands in the higher tier.
const (
	tierHotThreshold       = 80
	tierQualifiedThreshold = 60
	tierPotentialThreshold = 40
)

// TierFor maps a final score (already clipped to 0..100) to its tier.
// Total and deterministic.
func TierFor(score float64) domain.Tier {
	switch {
	case score >= tierHotThreshold:
		return domain.TierHot
	case score >= tierQualifiedThreshold:
		return domain.TierQualified
	case score >= tierPotentialThreshold:
		return domain.TierPotential
	default:
		return domain.TierSkip
	}
}
