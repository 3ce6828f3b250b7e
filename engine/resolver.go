package engine

import (
	"sort"

	"github.com/medsafe/interactions-api/catalog"
	"github.com/medsafe/interactions-api/catalog/entities"
)

// ResolveInteractions computes one finding per unordered pair of distinct
// drugs in the prescription. Pairs without a dataset record are reported
// as UNDOCUMENTED rather than silently dropped. A prescription of size 0
// or 1 yields an empty list.
//
// Findings are ordered by descending severity, then by the lexical order
// of the pair, so output is deterministic. Undocumented findings sort
// after documented NONE findings.
func ResolveInteractions(cat *catalog.Catalog, drugIDs []string) []Finding {
	ids := dedupe(drugIDs)
	if len(ids) < 2 {
		return []Finding{}
	}

	findings := make([]Finding, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := ids[i], ids[j]
			if b < a {
				a, b = b, a
			}

			record, documented := cat.InteractionBetween(a, b)
			if documented {
				findings = append(findings, Finding{
					DrugA:     a,
					DrugB:     b,
					Kind:      FindingDocumented,
					Severity:  record.Severity,
					Mechanism: record.Mechanism,
				})
			} else {
				findings = append(findings, Finding{
					DrugA: a,
					DrugB: b,
					Kind:  FindingUndocumented,
				})
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		ri, rj := findingRank(findings[i]), findingRank(findings[j])
		if ri != rj {
			return ri > rj
		}
		if findings[i].DrugA != findings[j].DrugA {
			return findings[i].DrugA < findings[j].DrugA
		}
		return findings[i].DrugB < findings[j].DrugB
	})

	return findings
}

// findingRank orders documented findings by severity and places
// undocumented pairs below documented NONE.
func findingRank(f Finding) int {
	if f.Kind == FindingUndocumented {
		return -1
	}
	return int(f.Severity)
}

// AggregateSeverity is the maximum severity among the documented findings.
// Undocumented pairs contribute nothing: unknown is not unsafe, it is
// unknown.
func AggregateSeverity(findings []Finding) entities.Severity {
	aggregate := entities.SeverityNone
	for _, finding := range findings {
		if finding.Kind == FindingDocumented && finding.Severity > aggregate {
			aggregate = finding.Severity
		}
	}
	return aggregate
}

// dedupe collapses repeated identifiers, keeping first-mention order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}
