package signals

import (
	"sort"
	"strconv"
	"strings"

	"github.com/scoutline/leadscore/internal/domain"
	"github.com/scoutline/leadscore/internal/logging"
)

// minPhoneDigits is the shortest digit string accepted as a phone number
// after normalization (North American number without country code).
const minPhoneDigits = 10

// Extractor turns one posting into a SignalRecord. It holds the compiled
// vocabulary automatons and is safe for concurrent use: extraction reads
// shared immutable state only.
type Extractor struct {
	categories *vocabMatcher
	expansion  *vocabMatcher
	revenue    *vocabMatcher
	stress     *vocabMatcher
	maturity   *vocabMatcher
	recruiting *vocabMatcher
	logger     logging.Logger
}

// NewExtractor compiles the fixed vocabularies into matchers.
func NewExtractor(logger logging.Logger) *Extractor {
	e := &Extractor{
		categories: newVocabMatcher(tagVocab(categoryKeywords)),
		expansion:  newPhraseMatcher(expansionPhrases),
		revenue:    newVocabMatcher(tagVocab(revenueRoleKeywords)),
		stress:     newPhraseMatcher(stressPhrases),
		maturity:   newVocabMatcher(tagVocab(maturityKeywords)),
		recruiting: newPhraseMatcher(structuredRecruitingPhrases),
		logger:     logger,
	}

	if logger != nil {
		logger.Info("signal extractor initialized",
			"vocab_version", VocabVersion,
			"category_keywords", len(e.categories.keywords),
			"expansion_phrases", len(e.expansion.keywords),
			"revenue_keywords", len(e.revenue.keywords),
			"stress_phrases", len(e.stress.keywords),
			"maturity_keywords", len(e.maturity.keywords),
			"recruiting_phrases", len(e.recruiting.keywords),
		)
	}

	return e
}

// Extract produces the SignalRecord for one posting. It is total: a
// posting with no matchable signals yields an empty record, never an
// error. Title and description are matched together; the location is kept
// verbatim apart from trimming.
func (e *Extractor) Extract(p domain.JobPosting) domain.SignalRecord {
	raw := p.Title + " " + p.Description
	normalized := normalizeMatchText(raw)

	rec := domain.SignalRecord{
		Location: strings.TrimSpace(p.Location),
	}

	catHits := e.categories.match(normalized)
	rec.Categories = make([]domain.CategoryTag, 0, len(catHits.tags))
	for tag := range catHits.tags {
		rec.Categories = append(rec.Categories, domain.CategoryTag(tag))
	}
	sortCategories(rec.Categories)

	rec.ExpansionHits = e.expansion.match(normalized).phrases

	roleHits := e.revenue.match(normalized)
	rec.RevenueRoleHits = make([]domain.RevenueRoleTag, 0, len(roleHits.tags))
	for tag := range roleHits.tags {
		rec.RevenueRoleHits = append(rec.RevenueRoleHits, domain.RevenueRoleTag(tag))
	}
	sortRevenueRoles(rec.RevenueRoleHits)

	rec.StressHits = e.stress.match(normalized).phrases

	maturityHits := e.maturity.match(normalized)
	if len(maturityHits.tags) > 0 {
		rec.MaturityHits = make(map[domain.MaturityCategory]bool, len(maturityHits.tags))
		for tag := range maturityHits.tags {
			rec.MaturityHits[domain.MaturityCategory(tag)] = true
		}
	}

	rec.StructuredRecruiting = e.recruiting.match(normalized).matched()
	rec.VolumeNumber = extractVolumeNumber(raw)
	rec.Contacts = extractContacts(raw)

	if e.logger != nil && !rec.Empty() {
		e.logger.Debug("signals extracted",
			"company", p.CompanyName,
			"title", p.Title,
			"categories", len(rec.Categories),
			"expansion_hits", len(rec.ExpansionHits),
			"stress_hits", len(rec.StressHits),
		)
	}

	return rec
}

// extractVolumeNumber scans the raw text with the numeric-hiring patterns
// and returns the largest captured integer, or nil when none match.
func extractVolumeNumber(raw string) *int {
	var best *int
	for _, pattern := range volumePatterns {
		for _, match := range pattern.FindAllStringSubmatch(raw, -1) {
			n, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if best == nil || n > *best {
				v := n
				best = &v
			}
		}
	}
	return best
}

// extractContacts pulls phone numbers and email addresses out of the raw
// text. Duplicates collapse; output is sorted for determinism.
func extractContacts(raw string) []string {
	seen := make(map[string]struct{})

	for _, email := range emailPattern.FindAllString(raw, -1) {
		seen[strings.ToLower(email)] = struct{}{}
	}

	for _, phone := range phonePattern.FindAllString(raw, -1) {
		digits := digitsOnly(phone)
		if len(digits) < minPhoneDigits {
			continue
		}
		seen[digits] = struct{}{}
	}

	if len(seen) == 0 {
		return nil
	}
	contacts := make([]string, 0, len(seen))
	for c := range seen {
		contacts = append(contacts, c)
	}
	sort.Strings(contacts)
	return contacts
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tagVocab flattens a typed vocabulary map into the string-keyed form the
// matcher works with.
func tagVocab[T ~string](vocab map[T][]string) map[string][]string {
	out := make(map[string][]string, len(vocab))
	for tag, phrases := range vocab {
		out[string(tag)] = phrases
	}
	return out
}

func sortCategories(tags []domain.CategoryTag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
}

func sortRevenueRoles(tags []domain.RevenueRoleTag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
}
