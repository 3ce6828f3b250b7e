package engine

import (
	"reflect"
	"testing"
)

func TestRecommendDosageAdultBand(t *testing.T) {
	cat := testCatalog(t)

	guidance := RecommendDosage(cat, "PAR", PatientContext{Age: 30}, nil)

	if guidance.Status != GuidanceOK {
		t.Fatalf("expected OK guidance, got %s", guidance.Status)
	}
	if guidance.Dose != 500 || guidance.MaxDose != 1000 || guidance.Unit != "mg" {
		t.Errorf("unexpected guidance values: %+v", guidance)
	}
	if guidance.ExceedsMax {
		t.Error("ExceedsMax should be false without a requested dose")
	}
}

func TestRecommendDosageAgeBoundaries(t *testing.T) {
	cat := testCatalog(t)

	// Upper bound is exclusive: 65 already falls in the senior band.
	tests := []struct {
		age     int
		wantMax float64
	}{
		{12, 750},
		{17, 750},
		{18, 1000},
		{64, 1000},
		{65, 750},
	}

	for _, tt := range tests {
		guidance := RecommendDosage(cat, "PAR", PatientContext{Age: tt.age}, nil)
		if guidance.Status != GuidanceOK {
			t.Errorf("age %d: expected OK, got %s", tt.age, guidance.Status)
			continue
		}
		if guidance.MaxDose != tt.wantMax {
			t.Errorf("age %d: MaxDose = %g, want %g", tt.age, guidance.MaxDose, tt.wantMax)
		}
	}
}

func TestRecommendDosageNoData(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name    string
		drugID  string
		patient PatientContext
	}{
		// The only pediatric paracetamol band has a weight range, so a
		// patient without a recorded weight cannot match it.
		{"child without weight", "PAR", PatientContext{Age: 5}},
		{"child outside weight range", "PAR", PatientContext{Age: 5, Weight: fptr(8)}},
		{"no bands below adult age", "ASP", PatientContext{Age: 10}},
		{"drug without any bands", "CEL", PatientContext{Age: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guidance := RecommendDosage(cat, tt.drugID, tt.patient, nil)
			if guidance.Status != GuidanceNoData {
				t.Errorf("expected NO_DATA, got %s (%+v)", guidance.Status, guidance)
			}
			if guidance.DrugID != tt.drugID {
				t.Errorf("DrugID = %s, want %s", guidance.DrugID, tt.drugID)
			}
		})
	}
}

func TestRecommendDosageWeightBand(t *testing.T) {
	cat := testCatalog(t)

	guidance := RecommendDosage(cat, "PAR", PatientContext{Age: 5, Weight: fptr(20)}, nil)

	if guidance.Status != GuidanceOK {
		t.Fatalf("expected OK guidance, got %s", guidance.Status)
	}
	if guidance.Dose != 250 || guidance.MaxDose != 500 {
		t.Errorf("expected pediatric band, got %+v", guidance)
	}
}

func TestRecommendDosageContraindications(t *testing.T) {
	cat := testCatalog(t)

	t.Run("age-specific warning for minors", func(t *testing.T) {
		// Aspirin has no pediatric band, but the age-keyed warning must
		// surface even on a NO_DATA guidance.
		guidance := RecommendDosage(cat, "ASP", PatientContext{Age: 10}, nil)

		if guidance.Status != GuidanceNoData {
			t.Errorf("expected NO_DATA for a child, got %s", guidance.Status)
		}
		want := []string{
			"Active gastrointestinal bleeding",
			"Reye syndrome risk in children and adolescents",
		}
		if !reflect.DeepEqual(guidance.Contraindications, want) {
			t.Errorf("Contraindications = %v, want %v", guidance.Contraindications, want)
		}
	})

	t.Run("age-specific warning dropped for adults", func(t *testing.T) {
		guidance := RecommendDosage(cat, "ASP", PatientContext{Age: 30}, nil)

		if guidance.Status != GuidanceOK {
			t.Errorf("expected OK for an adult, got %s", guidance.Status)
		}
		want := []string{"Active gastrointestinal bleeding"}
		if !reflect.DeepEqual(guidance.Contraindications, want) {
			t.Errorf("Contraindications = %v, want %v", guidance.Contraindications, want)
		}
	})

	t.Run("no warnings for unflagged drug", func(t *testing.T) {
		guidance := RecommendDosage(cat, "PAR", PatientContext{Age: 30}, nil)
		if len(guidance.Contraindications) != 0 {
			t.Errorf("expected no contraindications, got %v", guidance.Contraindications)
		}
	})
}

func TestRecommendDosageExceedsMax(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name      string
		requested float64
		want      bool
	}{
		{"within max", 800, false},
		{"exactly max", 1000, false},
		{"above max", 1500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guidance := RecommendDosage(cat, "PAR", PatientContext{Age: 30}, fptr(tt.requested))
			if guidance.ExceedsMax != tt.want {
				t.Errorf("ExceedsMax = %v, want %v", guidance.ExceedsMax, tt.want)
			}
			if guidance.RequestedDose == nil || *guidance.RequestedDose != tt.requested {
				t.Errorf("RequestedDose not echoed back: %+v", guidance.RequestedDose)
			}
		})
	}
}
