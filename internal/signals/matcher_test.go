package signals

import (
	"reflect"
	"testing"
)

func TestNormalizeMatchText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Sales Representative", "sales representative"},
		{"strips punctuation", "We're expanding!", "we re expanding"},
		{"collapses whitespace", "  sales \t rep  ", "sales rep"},
		{"hyphens become spaces", "fast-growing team", "fast growing team"},
		{"empty", "", ""},
		{"only punctuation", "?!...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeMatchText(tt.input); got != tt.want {
				t.Errorf("normalizeMatchText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestVocabMatcherWordBoundaries(t *testing.T) {
	m := newVocabMatcher(map[string][]string{
		"sales": {"sales", "sales rep"},
	})

	// "salesforce" must not fire the "sales" keyword
	hits := m.match(normalizeMatchText("We use Salesforce daily"))
	if hits.matched() {
		t.Errorf("expected no hits inside larger word, got %v", hits.phrases)
	}

	hits = m.match(normalizeMatchText("Hiring a sales rep now"))
	if _, ok := hits.tags["sales"]; !ok {
		t.Error("expected sales tag to fire")
	}
	want := []string{"sales", "sales rep"}
	if !reflect.DeepEqual(hits.phrases, want) {
		t.Errorf("phrases = %v, want %v", hits.phrases, want)
	}
}

func TestVocabMatcherOneTagPerPosting(t *testing.T) {
	m := newVocabMatcher(map[string][]string{
		"drivers": {"driver", "cdl", "delivery"},
	})

	// Multiple keywords for the same tag still yield one tag hit
	hits := m.match(normalizeMatchText("CDL driver for delivery routes"))
	if len(hits.tags) != 1 {
		t.Errorf("expected exactly one tag, got %d", len(hits.tags))
	}
}

func TestVocabMatcherEmptyText(t *testing.T) {
	m := newVocabMatcher(map[string][]string{"x": {"anything"}})

	hits := m.match("")
	if hits.matched() {
		t.Error("expected no hits on empty text")
	}
}

func TestPhraseMatcherCaseAndPunctuation(t *testing.T) {
	m := newPhraseMatcher([]string{"we're expanding", "due to growth"})

	hits := m.match(normalizeMatchText("WE'RE EXPANDING due to growth!!!"))
	if len(hits.phrases) != 2 {
		t.Errorf("expected 2 phrase hits, got %v", hits.phrases)
	}
}
