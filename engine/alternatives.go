package engine

import (
	"sort"

	"github.com/medsafe/interactions-api/catalog"
)

// SuggestAlternatives searches the therapeutic class of the flagged drug
// for substitutes that lower the aggregate severity of the prescription.
//
// The candidate pool is every same-class drug except the flagged drug
// itself and anything already prescribed. For each candidate the engine
// recomputes the aggregate severity of rest ∪ {candidate}; only strict
// improvements over the original aggregate are kept.
//
// Suggestions are ranked by ascending resulting severity, then ascending
// count of non-NONE documented findings, then lexical candidate ID. An
// empty result means "no safer alternative", a legitimate outcome.
func SuggestAlternatives(cat *catalog.Catalog, drugID string, rest []string) []AlternativeSuggestion {
	restIDs := dedupe(rest)
	prescribed := make(map[string]bool, len(restIDs)+1)
	prescribed[drugID] = true
	for _, id := range restIDs {
		prescribed[id] = true
	}

	original := AggregateSeverity(ResolveInteractions(cat, append(append([]string{}, restIDs...), drugID)))

	suggestions := []AlternativeSuggestion{}
	counts := make(map[string]int)
	for _, candidate := range cat.SameClassAs(drugID) {
		if prescribed[candidate.ID] {
			continue
		}

		findings := ResolveInteractions(cat, append(append([]string{}, restIDs...), candidate.ID))
		resulting := AggregateSeverity(findings)
		if resulting >= original {
			continue
		}

		counts[candidate.ID] = countRisky(findings)
		suggestions = append(suggestions, AlternativeSuggestion{
			Original:          drugID,
			Replacement:       candidate.ID,
			ReplacementName:   candidate.Name,
			ResultingSeverity: resulting,
			SeverityDelta:     int(resulting) - int(original),
			SameClass:         true,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		si, sj := suggestions[i], suggestions[j]
		if si.ResultingSeverity != sj.ResultingSeverity {
			return si.ResultingSeverity < sj.ResultingSeverity
		}
		if counts[si.Replacement] != counts[sj.Replacement] {
			return counts[si.Replacement] < counts[sj.Replacement]
		}
		return si.Replacement < sj.Replacement
	})

	return suggestions
}

// countRisky counts documented findings above NONE.
func countRisky(findings []Finding) int {
	count := 0
	for _, finding := range findings {
		if finding.Kind == FindingDocumented && finding.Severity > 0 {
			count++
		}
	}
	return count
}
