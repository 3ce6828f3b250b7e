// Package engine implements the interaction resolution and recommendation
// engine: pairwise interaction findings, age/weight-adjusted dosage
// guidance and same-class substitution suggestions, composed into one
// analysis result per request.
//
// The engine is a pure function of its inputs plus an immutable catalog
// snapshot: nothing here mutates shared state, so any number of analyses
// can run concurrently against the same snapshot.
package engine

import (
	"errors"
	"fmt"

	"github.com/medsafe/interactions-api/catalog/entities"
)

// ErrInvalidPatient rejects a whole request before any computation starts.
var ErrInvalidPatient = errors.New("invalid patient context")

// ErrCatalogUnavailable is returned when no catalog snapshot has been
// loaded yet.
var ErrCatalogUnavailable = errors.New("drug catalog not loaded")

// FindingKind distinguishes pairs that were checked against the dataset
// from pairs the dataset says nothing about. Callers must be able to tell
// "checked and safe" apart from "not in dataset".
type FindingKind string

const (
	FindingDocumented   FindingKind = "DOCUMENTED"
	FindingUndocumented FindingKind = "UNDOCUMENTED"
)

// Finding is one pairwise interaction result. DrugA and DrugB are in
// lexical order. Severity and Mechanism are meaningful only for
// documented findings; undocumented pairs carry SeverityNone.
type Finding struct {
	DrugA     string            `json:"drugA"`
	DrugB     string            `json:"drugB"`
	Kind      FindingKind       `json:"kind"`
	Severity  entities.Severity `json:"severity"`
	Mechanism string            `json:"mechanism,omitempty"`
}

// PatientContext carries the per-request patient attributes. Conditions
// are accepted and passed through but not consulted for additional rule
// evaluation; this is an explicit extension point.
type PatientContext struct {
	Age        int      `json:"age"`
	Weight     *float64 `json:"weight,omitempty"`
	Conditions []string `json:"conditions,omitempty"`
}

// Validate rejects impossible patient attributes before any computation.
func (p PatientContext) Validate() error {
	if p.Age < 0 {
		return fmt.Errorf("%w: age must be non-negative, got %d", ErrInvalidPatient, p.Age)
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive, got %g", ErrInvalidPatient, *p.Weight)
	}
	return nil
}

// GuidanceStatus tags the outcome of a dosage lookup. NO_DATA is a normal
// reportable outcome, not an error.
type GuidanceStatus string

const (
	GuidanceOK     GuidanceStatus = "OK"
	GuidanceNoData GuidanceStatus = "NO_DATA"
)

// DosageGuidance is the dosage recommendation for one drug and patient.
// Contraindications lists the warnings that apply to the patient's age,
// independent of whether a dosage band matched.
type DosageGuidance struct {
	DrugID            string         `json:"drugId"`
	Status            GuidanceStatus `json:"status"`
	Dose              float64        `json:"dose,omitempty"`
	MaxDose           float64        `json:"maxDose,omitempty"`
	Unit              string         `json:"unit,omitempty"`
	RequestedDose     *float64       `json:"requestedDose,omitempty"`
	ExceedsMax        bool           `json:"exceedsMax"`
	Contraindications []string       `json:"contraindications,omitempty"`
}

// AlternativeSuggestion proposes replacing one prescribed drug with a
// same-class substitute that lowers the aggregate severity of the
// prescription. SeverityDelta is resulting minus original aggregate
// severity, so improvements are negative.
type AlternativeSuggestion struct {
	Original          string            `json:"original"`
	Replacement       string            `json:"replacement"`
	ReplacementName   string            `json:"replacementName"`
	ResultingSeverity entities.Severity `json:"resultingSeverity"`
	SeverityDelta     int               `json:"severityDelta"`
	SameClass         bool              `json:"sameClass"`
}

// MentionStatus tags the per-item resolution outcome of one drug mention.
type MentionStatus string

const (
	MentionResolved MentionStatus = "RESOLVED"
	MentionNotFound MentionStatus = "NOT_FOUND"
)

// MentionResult reports how one input mention resolved against the
// catalog. Unresolved mentions never abort the whole analysis.
type MentionResult struct {
	Mention string        `json:"mention"`
	Status  MentionStatus `json:"status"`
	DrugID  string        `json:"drugId,omitempty"`
	Name    string        `json:"name,omitempty"`
	Class   string        `json:"class,omitempty"`
}

// DrugAlternatives groups the suggestions computed for one flagged drug.
type DrugAlternatives struct {
	DrugID      string                  `json:"drugId"`
	Suggestions []AlternativeSuggestion `json:"suggestions"`
}

// AnalysisResult is the structured output of one analysis request. It is
// serializable to any wire format and never contains prose.
type AnalysisResult struct {
	Mentions          []MentionResult    `json:"mentions"`
	Duplicates        []string           `json:"duplicates,omitempty"`
	Findings          []Finding          `json:"findings"`
	AggregateSeverity entities.Severity  `json:"aggregateSeverity"`
	Dosages           []DosageGuidance   `json:"dosages"`
	Alternatives      []DrugAlternatives `json:"alternatives"`
}
