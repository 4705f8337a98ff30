// Package aggregate folds per-posting signal records into one aggregate
// per company. The fold is a commutative union (plus max on the volume
// number), so aggregation is order independent and safe to shard by
// company key.
package aggregate

import (
	"sort"

	"github.com/scoutline/leadscore/internal/domain"
)

// Accumulator collects signal records for one scoring run, grouped by
// canonical company key. It is mutated only during the aggregation pass;
// Aggregates finalizes into immutable values. Not safe for concurrent Add.
type Accumulator struct {
	companies map[string]*companyState
}

// companyState is the in-progress union for one company.
type companyState struct {
	displayName          string
	postingCount         int
	categories           map[domain.CategoryTag]struct{}
	expansionHits        map[string]struct{}
	revenueRoleHits      map[domain.RevenueRoleTag]struct{}
	stressHits           map[string]struct{}
	maturityHits         map[domain.MaturityCategory]struct{}
	structuredRecruiting bool
	locations            map[string]struct{}
	maxVolume            *int
	contacts             map[string]struct{}
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{companies: make(map[string]*companyState)}
}

// Add folds one posting's signal record into the company's aggregate. The
// display name is taken from the first posting seen for the company;
// everything else is order independent.
func (a *Accumulator) Add(companyName string, rec domain.SignalRecord) {
	key := CanonicalKey(companyName)

	state, ok := a.companies[key]
	if !ok {
		state = &companyState{
			displayName:     DisplayName(companyName),
			categories:      make(map[domain.CategoryTag]struct{}),
			expansionHits:   make(map[string]struct{}),
			revenueRoleHits: make(map[domain.RevenueRoleTag]struct{}),
			stressHits:      make(map[string]struct{}),
			maturityHits:    make(map[domain.MaturityCategory]struct{}),
			locations:       make(map[string]struct{}),
			contacts:        make(map[string]struct{}),
		}
		a.companies[key] = state
	}

	state.postingCount++

	for _, tag := range rec.Categories {
		state.categories[tag] = struct{}{}
	}
	for _, phrase := range rec.ExpansionHits {
		state.expansionHits[phrase] = struct{}{}
	}
	for _, tag := range rec.RevenueRoleHits {
		state.revenueRoleHits[tag] = struct{}{}
	}
	for _, phrase := range rec.StressHits {
		state.stressHits[phrase] = struct{}{}
	}
	for category, hit := range rec.MaturityHits {
		if hit {
			state.maturityHits[category] = struct{}{}
		}
	}
	if rec.StructuredRecruiting {
		state.structuredRecruiting = true
	}
	if loc := CanonicalKey(rec.Location); loc != "" {
		state.locations[loc] = struct{}{}
	}
	if rec.VolumeNumber != nil {
		if state.maxVolume == nil || *rec.VolumeNumber > *state.maxVolume {
			v := *rec.VolumeNumber
			state.maxVolume = &v
		}
	}
	for _, contact := range rec.Contacts {
		state.contacts[contact] = struct{}{}
	}
}

// Len returns the number of distinct companies accumulated so far.
func (a *Accumulator) Len() int {
	return len(a.companies)
}

// Aggregates finalizes the accumulator into one CompanyAggregate per
// company, with every set field sorted, ordered by company key. An empty
// accumulator yields an empty slice.
func (a *Accumulator) Aggregates() []domain.CompanyAggregate {
	out := make([]domain.CompanyAggregate, 0, len(a.companies))
	for key, state := range a.companies {
		agg := domain.CompanyAggregate{
			CompanyKey:           key,
			CompanyName:          state.displayName,
			PostingCount:         state.postingCount,
			Categories:           sortedKeys(state.categories),
			ExpansionHits:        sortedKeys(state.expansionHits),
			RevenueRoleHits:      sortedKeys(state.revenueRoleHits),
			StressHits:           sortedKeys(state.stressHits),
			MaturityHits:         sortedKeys(state.maturityHits),
			StructuredRecruiting: state.structuredRecruiting,
			Locations:            sortedKeys(state.locations),
			Contacts:             sortedKeys(state.contacts),
		}
		if state.maxVolume != nil {
			v := *state.maxVolume
			agg.MaxVolumeNumber = &v
		}
		out = append(out, agg)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CompanyKey < out[j].CompanyKey })
	return out
}

func sortedKeys[T ~string](set map[T]struct{}) []T {
	keys := make([]T, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
