package aggregate

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/scoutline/leadscore/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestAddGroupsByCanonicalKey(t *testing.T) {
	acc := NewAccumulator()

	acc.Add("Acme Plumbing", domain.SignalRecord{Categories: []domain.CategoryTag{domain.CategorySales}})
	acc.Add("ACME  PLUMBING", domain.SignalRecord{Categories: []domain.CategoryTag{domain.CategoryDrivers}})
	acc.Add("acme plumbing", domain.SignalRecord{})

	if acc.Len() != 1 {
		t.Fatalf("expected 1 company, got %d", acc.Len())
	}

	aggs := acc.Aggregates()
	agg := aggs[0]
	if agg.CompanyKey != "acme plumbing" {
		t.Errorf("company key = %q, want %q", agg.CompanyKey, "acme plumbing")
	}
	if agg.CompanyName != "Acme Plumbing" {
		t.Errorf("display name = %q, want first-seen casing", agg.CompanyName)
	}
	if agg.PostingCount != 3 {
		t.Errorf("posting count = %d, want 3", agg.PostingCount)
	}
	want := []domain.CategoryTag{domain.CategoryDrivers, domain.CategorySales}
	if !reflect.DeepEqual(agg.Categories, want) {
		t.Errorf("categories = %v, want %v", agg.Categories, want)
	}
}

func TestAddUnionsAndMaxes(t *testing.T) {
	acc := NewAccumulator()

	acc.Add("Acme", domain.SignalRecord{
		ExpansionHits: []string{"expanding"},
		StressHits:    []string{"urgent"},
		VolumeNumber:  intPtr(5),
		Location:      "Sudbury ON",
		Contacts:      []string{"7055551234"},
	})
	acc.Add("Acme", domain.SignalRecord{
		ExpansionHits:        []string{"expanding", "new location"},
		StressHits:           []string{"urgent", "asap"},
		VolumeNumber:         intPtr(12),
		Location:             "North Bay ON",
		StructuredRecruiting: true,
		MaturityHits:         map[domain.MaturityCategory]bool{domain.MaturityCRM: true},
		Contacts:             []string{"jobs@acme.com"},
	})

	agg := acc.Aggregates()[0]

	if !reflect.DeepEqual(agg.ExpansionHits, []string{"expanding", "new location"}) {
		t.Errorf("expansion hits = %v", agg.ExpansionHits)
	}
	if !reflect.DeepEqual(agg.StressHits, []string{"asap", "urgent"}) {
		t.Errorf("stress hits = %v", agg.StressHits)
	}
	if agg.MaxVolumeNumber == nil || *agg.MaxVolumeNumber != 12 {
		t.Errorf("max volume = %v, want 12", agg.MaxVolumeNumber)
	}
	if !agg.StructuredRecruiting {
		t.Error("expected structured recruiting to stick")
	}
	if !reflect.DeepEqual(agg.Locations, []string{"north bay on", "sudbury on"}) {
		t.Errorf("locations = %v", agg.Locations)
	}
	if !reflect.DeepEqual(agg.Contacts, []string{"7055551234", "jobs@acme.com"}) {
		t.Errorf("contacts = %v", agg.Contacts)
	}
	if !reflect.DeepEqual(agg.MaturityHits, []domain.MaturityCategory{domain.MaturityCRM}) {
		t.Errorf("maturity hits = %v", agg.MaturityHits)
	}
}

func TestEmptyLocationIgnored(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("Acme", domain.SignalRecord{Location: "   "})

	if locs := acc.Aggregates()[0].Locations; len(locs) != 0 {
		t.Errorf("expected no locations, got %v", locs)
	}
}

// Aggregation must produce identical results regardless of record order,
// apart from the display name, which follows the first posting seen.
func TestAggregationOrderIndependent(t *testing.T) {
	records := []domain.SignalRecord{
		{Categories: []domain.CategoryTag{domain.CategorySales}, VolumeNumber: intPtr(3)},
		{ExpansionHits: []string{"expanding"}, Location: "Sudbury ON"},
		{StressHits: []string{"urgent"}, VolumeNumber: intPtr(10)},
		{RevenueRoleHits: []domain.RevenueRoleTag{domain.RevenueRoleDriver}},
		{MaturityHits: map[domain.MaturityCategory]bool{domain.MaturityData: true}, StructuredRecruiting: true},
		{Contacts: []string{"jobs@acme.com"}, Location: "North Bay ON"},
	}

	build := func(order []int) domain.CompanyAggregate {
		acc := NewAccumulator()
		for _, i := range order {
			acc.Add("Acme Plumbing", records[i])
		}
		return acc.Aggregates()[0]
	}

	baseline := build([]int{0, 1, 2, 3, 4, 5})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		order := rng.Perm(len(records))
		got := build(order)
		if !reflect.DeepEqual(got, baseline) {
			t.Fatalf("order %v produced different aggregate:\n got %+v\nwant %+v", order, got, baseline)
		}
	}
}

func TestAggregatesSortedByKey(t *testing.T) {
	acc := NewAccumulator()
	acc.Add("Zebra Co", domain.SignalRecord{})
	acc.Add("Alpha Co", domain.SignalRecord{})
	acc.Add("Mid Co", domain.SignalRecord{})

	aggs := acc.Aggregates()
	keys := []string{aggs[0].CompanyKey, aggs[1].CompanyKey, aggs[2].CompanyKey}
	want := []string{"alpha co", "mid co", "zebra co"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestEmptyAccumulator(t *testing.T) {
	acc := NewAccumulator()
	if acc.Len() != 0 {
		t.Errorf("Len = %d, want 0", acc.Len())
	}
	if aggs := acc.Aggregates(); len(aggs) != 0 {
		t.Errorf("expected no aggregates, got %d", len(aggs))
	}
}
