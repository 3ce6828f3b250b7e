// Package validation provides load-time dataset integrity checks and
// request input validation for the interactions API. Integrity failures
// are fatal at startup so the request path never has to resolve ambiguous
// data.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/medsafe/interactions-api/catalog"
	"github.com/medsafe/interactions-api/catalog/entities"
	"github.com/medsafe/interactions-api/interfaces"
)

// Compile-time check to ensure Validator implements DataValidator
var _ interfaces.DataValidator = (*Validator)(nil)

// Validator implements the interfaces.DataValidator contract.
type Validator struct{}

// NewValidator creates a new dataset and input validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDataset performs the full set of load-time integrity checks:
// duplicate drugs and colliding names, duplicate or dangling interaction
// pair records, dosage bands that overlap in the (age, weight) space, and
// malformed contraindications.
func (v *Validator) ValidateDataset(drugs []entities.Drug, records []entities.InteractionRecord, bands []entities.DosageBand, contras []entities.Contraindication) error {
	if len(drugs) == 0 {
		return fmt.Errorf("dataset contains no drugs")
	}

	ids := make(map[string]bool, len(drugs))
	names := make(map[string]string)
	for _, drug := range drugs {
		if ids[drug.ID] {
			return fmt.Errorf("duplicate drug identifier: %s", drug.ID)
		}
		ids[drug.ID] = true

		for _, name := range append([]string{drug.Name}, drug.Synonyms...) {
			normalized := catalog.NormalizeName(name)
			if normalized == "" {
				return fmt.Errorf("drug %s has an empty name or synonym", drug.ID)
			}
			if owner, taken := names[normalized]; taken && owner != drug.ID {
				return fmt.Errorf("name %q resolves to both %s and %s", name, owner, drug.ID)
			}
			names[normalized] = drug.ID
		}
	}

	pairs := make(map[string]bool, len(records))
	for _, record := range records {
		if record.DrugA == record.DrugB {
			return fmt.Errorf("self-interaction record for drug %s", record.DrugA)
		}
		if !ids[record.DrugA] {
			return fmt.Errorf("interaction references unknown drug: %s", record.DrugA)
		}
		if !ids[record.DrugB] {
			return fmt.Errorf("interaction references unknown drug: %s", record.DrugB)
		}

		key := entities.PairKey(record.DrugA, record.DrugB)
		if pairs[key] {
			return fmt.Errorf("duplicate interaction record for pair %s", key)
		}
		pairs[key] = true
	}

	byDrug := make(map[string][]entities.DosageBand)
	for _, band := range bands {
		if !ids[band.DrugID] {
			return fmt.Errorf("dosage band references unknown drug: %s", band.DrugID)
		}
		if band.AgeMin < 0 || band.AgeMax <= band.AgeMin {
			return fmt.Errorf("drug %s: invalid age range [%d, %d)", band.DrugID, band.AgeMin, band.AgeMax)
		}
		if band.WeightMin != nil && *band.WeightMin < 0 {
			return fmt.Errorf("drug %s: negative weight bound", band.DrugID)
		}
		if band.WeightMin != nil && band.WeightMax != nil && *band.WeightMax <= *band.WeightMin {
			return fmt.Errorf("drug %s: invalid weight range [%g, %g)", band.DrugID, *band.WeightMin, *band.WeightMax)
		}
		if band.Dose <= 0 || band.MaxDose < band.Dose {
			return fmt.Errorf("drug %s: invalid dose values (dose %g, max %g)", band.DrugID, band.Dose, band.MaxDose)
		}
		byDrug[band.DrugID] = append(byDrug[band.DrugID], band)
	}

	for _, contra := range contras {
		if !ids[contra.DrugID] {
			return fmt.Errorf("contraindication references unknown drug: %s", contra.DrugID)
		}
		if strings.TrimSpace(contra.Warning) == "" {
			return fmt.Errorf("drug %s: contraindication without warning text", contra.DrugID)
		}
		if contra.AgeMin != nil && *contra.AgeMin < 0 {
			return fmt.Errorf("drug %s: negative contraindication age bound", contra.DrugID)
		}
		if contra.AgeMin != nil && contra.AgeMax != nil && *contra.AgeMax <= *contra.AgeMin {
			return fmt.Errorf("drug %s: invalid contraindication age range [%d, %d)", contra.DrugID, *contra.AgeMin, *contra.AgeMax)
		}
	}

	// Bands for one drug must partition the (age, weight) space so that
	// at most one band can ever match a patient.
	for id, drugBands := range byDrug {
		for i := 0; i < len(drugBands); i++ {
			for j := i + 1; j < len(drugBands); j++ {
				if bandsOverlap(drugBands[i], drugBands[j]) {
					return fmt.Errorf("drug %s: overlapping dosage bands ([%d, %d) and [%d, %d))",
						id, drugBands[i].AgeMin, drugBands[i].AgeMax, drugBands[j].AgeMin, drugBands[j].AgeMax)
				}
			}
		}
	}

	return nil
}

func bandsOverlap(a, b entities.DosageBand) bool {
	if a.AgeMin >= b.AgeMax || b.AgeMin >= a.AgeMax {
		return false
	}
	return weightRangesOverlap(a, b)
}

// weightRangesOverlap treats a missing bound as unbounded, so a band
// without a weight range overlaps every other band in the same age span.
func weightRangesOverlap(a, b entities.DosageBand) bool {
	aMin, aMax := weightBounds(a)
	bMin, bMax := weightBounds(b)
	return aMin < bMax && bMin < aMax
}

func weightBounds(band entities.DosageBand) (float64, float64) {
	min, max := 0.0, maxWeight
	if band.WeightMin != nil {
		min = *band.WeightMin
	}
	if band.WeightMax != nil {
		max = *band.WeightMax
	}
	return min, max
}

// maxWeight is an effectively-unbounded upper weight limit in kg.
const maxWeight = 1e9

// ValidateMention checks a user-supplied drug mention before resolution.
// Mentions come from free text, so the charset is permissive about
// accents but rejects anything that cannot be a drug name.
func (v *Validator) ValidateMention(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("drug mention cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return fmt.Errorf("drug mention too long: maximum 100 characters")
	}
	for _, r := range trimmed {
		if !isMentionRune(r) {
			return fmt.Errorf("drug mention contains invalid character %q", r)
		}
	}
	return nil
}

func isMentionRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ' || r == '-' || r == '\'' || r == '.' || r == '/' || r == '+':
		return true
	case r >= 0x00C0 && r <= 0x024F: // accented latin letters
		return true
	}
	return false
}
