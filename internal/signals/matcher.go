package signals

import (
	"sort"
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// vocabMatcher matches one fixed vocabulary against normalized text in a
// single Aho-Corasick pass. Vocabularies never change at runtime, so the
// automaton is built once and shared.
type vocabMatcher struct {
	matcher  *ahocorasick.Matcher
	keywords []string            // normalized, deduplicated, index-aligned with matcher
	tags     map[string][]string // normalized keyword -> tags it belongs to
}

// vocabHits is the outcome of matching one vocabulary against one text.
type vocabHits struct {
	tags    map[string]struct{} // distinct tags with at least one hit
	phrases []string            // distinct matched phrases, sorted
}

// newVocabMatcher builds a matcher from tag -> phrase lists. Phrases are
// normalized the same way input text is, so matching tolerates case,
// punctuation, and whitespace variation.
func newVocabMatcher(vocab map[string][]string) *vocabMatcher {
	m := &vocabMatcher{tags: make(map[string][]string)}

	seen := make(map[string]struct{})
	for tag, phrases := range vocab {
		for _, phrase := range phrases {
			normalized := normalizeMatchText(phrase)
			if normalized == "" {
				continue
			}
			if _, dup := seen[normalized]; !dup {
				seen[normalized] = struct{}{}
				m.keywords = append(m.keywords, normalized)
			}
			m.tags[normalized] = append(m.tags[normalized], tag)
		}
	}
	sort.Strings(m.keywords)

	if len(m.keywords) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.keywords)
	}
	return m
}

// newPhraseMatcher builds a matcher for a flat phrase list with no tags.
func newPhraseMatcher(phrases []string) *vocabMatcher {
	return newVocabMatcher(map[string][]string{"": phrases})
}

// match runs the vocabulary against text already passed through
// normalizeMatchText. Hits are validated at word boundaries so "sales"
// never fires inside "salesforce".
func (m *vocabMatcher) match(normalized string) vocabHits {
	hits := vocabHits{tags: make(map[string]struct{})}
	if m.matcher == nil || normalized == "" {
		return hits
	}

	padded := " " + normalized + " "
	for _, idx := range m.matcher.Match([]byte(normalized)) {
		if idx >= len(m.keywords) {
			continue
		}
		keyword := m.keywords[idx]
		if !strings.Contains(padded, " "+keyword+" ") {
			continue
		}
		hits.phrases = append(hits.phrases, keyword)
		for _, tag := range m.tags[keyword] {
			if tag != "" {
				hits.tags[tag] = struct{}{}
			}
		}
	}
	sort.Strings(hits.phrases)
	return hits
}

// matched reports whether any phrase in the vocabulary fired.
func (h vocabHits) matched() bool {
	return len(h.phrases) > 0
}

// normalizeMatchText lowercases text and replaces every non-alphanumeric
// rune with a space, collapsing runs, so keyword matching is insensitive to
// case, punctuation, and whitespace variation around phrases.
func normalizeMatchText(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimRight(b.String(), " ")
}
