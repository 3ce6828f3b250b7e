package engine

import "github.com/medsafe/interactions-api/catalog"

// RecommendDosage selects the dosage band matching the patient's age and,
// when the band constrains it, the patient's weight. Load-time validation
// guarantees at most one band can match, so the first match is the match.
//
// No matching band yields a NO_DATA guidance, not an error: absence of
// dosage data is an expected, reportable outcome. Bands with a weight
// range cannot match a patient whose weight was not provided.
//
// When the caller supplies the prescribed dose, ExceedsMax flags doses
// above the band's maximum safe dose.
//
// Contraindications applying to the patient's age are attached to the
// guidance even when no band matches: a drug that must not be given to
// the patient stays flagged regardless of dosage data.
func RecommendDosage(cat *catalog.Catalog, drugID string, patient PatientContext, requestedDose *float64) DosageGuidance {
	guidance := DosageGuidance{
		DrugID:        drugID,
		Status:        GuidanceNoData,
		RequestedDose: requestedDose,
	}

	for _, contra := range cat.ContraindicationsOf(drugID) {
		if contra.AppliesTo(patient.Age) {
			guidance.Contraindications = append(guidance.Contraindications, contra.Warning)
		}
	}

	for _, band := range cat.DosageBandsOf(drugID) {
		if !band.MatchesAge(patient.Age) {
			continue
		}
		if band.HasWeightRange() {
			if patient.Weight == nil || !band.MatchesWeight(*patient.Weight) {
				continue
			}
		}

		guidance.Status = GuidanceOK
		guidance.Dose = band.Dose
		guidance.MaxDose = band.MaxDose
		guidance.Unit = band.Unit
		if requestedDose != nil && *requestedDose > band.MaxDose {
			guidance.ExceedsMax = true
		}
		return guidance
	}

	return guidance
}
