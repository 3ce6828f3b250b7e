package engine

import (
	"sort"

	"github.com/medsafe/interactions-api/catalog/entities"
	"github.com/medsafe/interactions-api/interfaces"
)

// PrescriptionEntry is one drug mention in an analysis request, with the
// prescribed dose when the caller knows it.
type PrescriptionEntry struct {
	Mention string   `json:"mention"`
	Dose    *float64 `json:"dose,omitempty"`
}

// AnalysisRequest carries one full analysis: the prescription as given
// (free text mentions or pre-resolved identifiers) and the patient.
type AnalysisRequest struct {
	Prescription []PrescriptionEntry `json:"prescription"`
	Patient      PatientContext      `json:"patient"`
}

// Assembler composes the resolver, dosage advisor and alternative
// recommender into one analysis per request. It is the sole public entry
// point consumed by the API layer.
type Assembler struct {
	store interfaces.DataStore
}

// NewAssembler creates an assembler reading catalog snapshots from the
// given store.
func NewAssembler(store interfaces.DataStore) *Assembler {
	return &Assembler{store: store}
}

// Analyze runs one analysis request. Input validation failures reject the
// whole request; everything after that is per-item: an unresolvable
// mention or a NO_DATA dosage marks that item only while the rest of the
// result is still computed.
func (a *Assembler) Analyze(req AnalysisRequest) (*AnalysisResult, error) {
	if err := req.Patient.Validate(); err != nil {
		return nil, err
	}

	// One snapshot per request: every sub-computation sees the same
	// catalog even if a reload swaps it mid-flight.
	cat := a.store.GetCatalog()
	if cat == nil {
		return nil, ErrCatalogUnavailable
	}

	result := &AnalysisResult{
		Mentions:     make([]MentionResult, 0, len(req.Prescription)),
		Findings:     []Finding{},
		Dosages:      []DosageGuidance{},
		Alternatives: []DrugAlternatives{},
	}

	// Resolve mentions per item. Duplicates are collapsed to one drug but
	// flagged, and the first mention of a drug supplies its dose.
	var ids []string
	seen := make(map[string]bool)
	doses := make(map[string]*float64)
	duplicates := make(map[string]bool)

	for _, entry := range req.Prescription {
		drug, ok := cat.Resolve(entry.Mention)
		if !ok {
			result.Mentions = append(result.Mentions, MentionResult{
				Mention: entry.Mention,
				Status:  MentionNotFound,
			})
			continue
		}

		result.Mentions = append(result.Mentions, MentionResult{
			Mention: entry.Mention,
			Status:  MentionResolved,
			DrugID:  drug.ID,
			Name:    drug.Name,
			Class:   drug.Class,
		})

		if seen[drug.ID] {
			duplicates[drug.ID] = true
			continue
		}
		seen[drug.ID] = true
		ids = append(ids, drug.ID)
		doses[drug.ID] = entry.Dose
	}

	for id := range duplicates {
		result.Duplicates = append(result.Duplicates, id)
	}
	sort.Strings(result.Duplicates)

	result.Findings = ResolveInteractions(cat, ids)
	result.AggregateSeverity = AggregateSeverity(result.Findings)

	for _, id := range ids {
		result.Dosages = append(result.Dosages, RecommendDosage(cat, id, req.Patient, doses[id]))
	}

	// Substitutions are proposed for every drug implicated in a
	// MODERATE-or-worse finding.
	flagged := flaggedDrugs(result.Findings)
	for _, id := range flagged {
		rest := make([]string, 0, len(ids)-1)
		for _, other := range ids {
			if other != id {
				rest = append(rest, other)
			}
		}
		result.Alternatives = append(result.Alternatives, DrugAlternatives{
			DrugID:      id,
			Suggestions: SuggestAlternatives(cat, id, rest),
		})
	}

	return result, nil
}

// flaggedDrugs returns the sorted set of drugs appearing in a documented
// finding of MODERATE or worse severity.
func flaggedDrugs(findings []Finding) []string {
	set := make(map[string]bool)
	for _, finding := range findings {
		if finding.Kind != FindingDocumented || finding.Severity < entities.SeverityModerate {
			continue
		}
		set[finding.DrugA] = true
		set[finding.DrugB] = true
	}

	flagged := make([]string, 0, len(set))
	for id := range set {
		flagged = append(flagged, id)
	}
	sort.Strings(flagged)
	return flagged
}
