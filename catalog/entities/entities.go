// Package entities defines the immutable catalog types shared across the
// interactions API: drugs, interaction records, dosage bands and the
// severity scale used to classify interaction risk.
package entities

import (
	"fmt"
	"strings"
)

// Severity classifies the risk of a documented drug-drug interaction.
// The zero value is SeverityNone. Ordering is significant: higher values
// are worse, and the aggregate severity of a prescription is the maximum
// across its findings.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityModerate
	SeveritySevere
	SeverityContraindicated
)

var severityNames = map[Severity]string{
	SeverityNone:            "NONE",
	SeverityMinor:           "MINOR",
	SeverityModerate:        "MODERATE",
	SeveritySevere:          "SEVERE",
	SeverityContraindicated: "CONTRAINDICATED",
}

// String returns the canonical upper-case name of the severity level.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// MarshalText makes Severity serialize as its canonical name in JSON.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a dataset severity column into a Severity level.
// Matching is case-insensitive on the canonical names.
func ParseSeverity(value string) (Severity, error) {
	for level, name := range severityNames {
		if strings.EqualFold(value, name) {
			return level, nil
		}
	}
	return SeverityNone, fmt.Errorf("unknown severity %q", value)
}

// Drug is one catalog entry, keyed by a stable canonical identifier.
// Synonyms cover brand and generic names that resolve to the same entry.
// Drugs are immutable once loaded.
type Drug struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms,omitempty"`
	Class    string   `json:"class"`
}

// InteractionRecord documents the interaction between one unordered pair
// of drugs. DrugA and DrugB are stored in lexical order so that each pair
// has exactly one canonical representation. Absence of a record for a pair
// means "no documented interaction", which is distinct from a record with
// SeverityNone ("checked and safe").
type InteractionRecord struct {
	DrugA     string   `json:"drugA"`
	DrugB     string   `json:"drugB"`
	Severity  Severity `json:"severity"`
	Mechanism string   `json:"mechanism,omitempty"`
}

// PairKey returns the canonical "A|B" key for an unordered drug pair.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// Contraindication flags a condition under which a drug must not be
// given. AgeMin and AgeMax bound the patient ages the warning applies
// to; a missing bound is unbounded, so a record without bounds applies
// to every patient.
type Contraindication struct {
	DrugID  string `json:"drugId"`
	AgeMin  *int   `json:"ageMin,omitempty"`
	AgeMax  *int   `json:"ageMax,omitempty"`
	Warning string `json:"warning"`
}

// AppliesTo reports whether the contraindication applies at the given
// age. Bounds follow the dosage band convention: inclusive lower bound,
// exclusive upper bound.
func (c Contraindication) AppliesTo(age int) bool {
	if c.AgeMin != nil && age < *c.AgeMin {
		return false
	}
	if c.AgeMax != nil && age >= *c.AgeMax {
		return false
	}
	return true
}

// DosageBand maps an age range (inclusive lower bound, exclusive upper
// bound) and an optional weight range to a recommended and a maximum safe
// dose for one drug. Bands for the same drug never overlap in the
// (age, weight) space; the loader rejects datasets that violate this.
type DosageBand struct {
	DrugID    string   `json:"drugId"`
	AgeMin    int      `json:"ageMin"`
	AgeMax    int      `json:"ageMax"`
	WeightMin *float64 `json:"weightMin,omitempty"`
	WeightMax *float64 `json:"weightMax,omitempty"`
	Dose      float64  `json:"dose"`
	MaxDose   float64  `json:"maxDose"`
	Unit      string   `json:"unit"`
}

// HasWeightRange reports whether the band constrains patient weight.
func (b DosageBand) HasWeightRange() bool {
	return b.WeightMin != nil || b.WeightMax != nil
}

// MatchesAge reports whether age falls inside [AgeMin, AgeMax).
func (b DosageBand) MatchesAge(age int) bool {
	return age >= b.AgeMin && age < b.AgeMax
}

// MatchesWeight reports whether weight falls inside the optional weight
// range. A band without weight bounds matches any weight.
func (b DosageBand) MatchesWeight(weight float64) bool {
	if b.WeightMin != nil && weight < *b.WeightMin {
		return false
	}
	if b.WeightMax != nil && weight >= *b.WeightMax {
		return false
	}
	return true
}
