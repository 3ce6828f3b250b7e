package catalog

import (
	"testing"

	"github.com/medsafe/interactions-api/catalog/entities"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func buildTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	drugs := []entities.Drug{
		{ID: "N02BE01", Name: "Paracétamol", Synonyms: []string{"acetaminophen", "Doliprane"}, Class: "Analgesic"},
		{ID: "N02BA01", Name: "Aspirin", Synonyms: []string{"ASA"}, Class: "NSAID"},
		{ID: "M01AE01", Name: "Ibuprofen", Synonyms: []string{"Advil"}, Class: "NSAID"},
		{ID: "B01AA03", Name: "Warfarin", Class: "Anticoagulant"},
	}
	records := []entities.InteractionRecord{
		{DrugA: "M01AE01", DrugB: "N02BA01", Severity: entities.SeverityModerate, Mechanism: "GI bleeding risk"},
		{DrugA: "B01AA03", DrugB: "N02BA01", Severity: entities.SeveritySevere, Mechanism: "Bleeding risk"},
	}
	bands := []entities.DosageBand{
		{DrugID: "N02BE01", AgeMin: 18, AgeMax: 65, Dose: 500, MaxDose: 1000, Unit: "mg"},
		{DrugID: "N02BE01", AgeMin: 0, AgeMax: 12, WeightMin: fptr(10), WeightMax: fptr(30), Dose: 250, MaxDose: 500, Unit: "mg"},
	}

	contras := []entities.Contraindication{
		{DrugID: "N02BA01", AgeMax: iptr(18), Warning: "Reye syndrome risk in children and adolescents"},
		{DrugID: "N02BA01", Warning: "Active gastrointestinal bleeding"},
	}

	cat, err := Build(drugs, records, bands, contras)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return cat
}

func TestResolve(t *testing.T) {
	cat := buildTestCatalog(t)

	tests := []struct {
		name    string
		mention string
		wantID  string
		wantOK  bool
	}{
		{"exact name", "Aspirin", "N02BA01", true},
		{"case insensitive", "ASPIRIN", "N02BA01", true},
		{"synonym", "advil", "M01AE01", true},
		{"canonical id", "B01AA03", "B01AA03", true},
		{"accented mention against accented entry", "Paracétamol", "N02BE01", true},
		{"unaccented mention against accented entry", "paracetamol", "N02BE01", true},
		{"surrounding whitespace", "  aspirin  ", "N02BA01", true},
		{"unknown mention", "xyzdrug123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drug, ok := cat.Resolve(tt.mention)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.mention, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if drug.ID != tt.wantID {
				t.Errorf("Resolve(%q) = %s, want %s", tt.mention, drug.ID, tt.wantID)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Aspirin", "aspirin"},
		{"  Aspirin  ", "aspirin"},
		{"Paracétamol", "paracetamol"},
		{"ACETYLSALICYLIC   ACID", "acetylsalicylic acid"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestInteractionBetweenIsSymmetric(t *testing.T) {
	cat := buildTestCatalog(t)

	forward, okF := cat.InteractionBetween("N02BA01", "M01AE01")
	backward, okB := cat.InteractionBetween("M01AE01", "N02BA01")

	if !okF || !okB {
		t.Fatal("documented pair not found in one direction")
	}
	if forward != backward {
		t.Errorf("lookup not symmetric: %+v vs %+v", forward, backward)
	}

	if _, ok := cat.InteractionBetween("N02BE01", "M01AE01"); ok {
		t.Error("undocumented pair reported as documented")
	}
}

func TestSameClassAsExcludesSelf(t *testing.T) {
	cat := buildTestCatalog(t)

	peers := cat.SameClassAs("N02BA01")
	if len(peers) != 1 || peers[0].ID != "M01AE01" {
		t.Errorf("SameClassAs(N02BA01) = %+v, want [M01AE01]", peers)
	}

	if peers := cat.SameClassAs("B01AA03"); len(peers) != 0 {
		t.Errorf("expected no peers for a single-member class, got %+v", peers)
	}
	if peers := cat.SameClassAs("UNKNOWN"); peers != nil {
		t.Errorf("expected nil for unknown drug, got %+v", peers)
	}
}

func TestDrugsSortedByID(t *testing.T) {
	cat := buildTestCatalog(t)

	drugs := cat.Drugs()
	for i := 1; i < len(drugs); i++ {
		if drugs[i-1].ID >= drugs[i].ID {
			t.Errorf("drugs not sorted: %s before %s", drugs[i-1].ID, drugs[i].ID)
		}
	}
	if cat.DrugCount() != 4 || cat.InteractionCount() != 2 {
		t.Errorf("unexpected counts: %d drugs, %d interactions", cat.DrugCount(), cat.InteractionCount())
	}
}

func TestDosageBandsSortedByAge(t *testing.T) {
	cat := buildTestCatalog(t)

	bands := cat.DosageBandsOf("N02BE01")
	if len(bands) != 2 {
		t.Fatalf("expected 2 bands, got %d", len(bands))
	}
	if bands[0].AgeMin != 0 || bands[1].AgeMin != 18 {
		t.Errorf("bands not sorted by age: %+v", bands)
	}
}

func TestBuildRejectsAmbiguousData(t *testing.T) {
	base := []entities.Drug{
		{ID: "A", Name: "Alpha", Class: "X"},
		{ID: "B", Name: "Beta", Class: "X"},
	}

	tests := []struct {
		name    string
		drugs   []entities.Drug
		records []entities.InteractionRecord
	}{
		{
			name:  "duplicate drug id",
			drugs: append(base, entities.Drug{ID: "A", Name: "Alpha Two", Class: "X"}),
		},
		{
			name:  "colliding names",
			drugs: append(base, entities.Drug{ID: "C", Name: "alpha", Class: "X"}),
		},
		{
			name:  "synonym collides with another name",
			drugs: append(base, entities.Drug{ID: "C", Name: "Gamma", Synonyms: []string{"BETA"}, Class: "X"}),
		},
		{
			name:    "dangling interaction",
			drugs:   base,
			records: []entities.InteractionRecord{{DrugA: "A", DrugB: "Z", Severity: entities.SeverityMinor}},
		},
		{
			name:  "duplicate pair",
			drugs: base,
			records: []entities.InteractionRecord{
				{DrugA: "A", DrugB: "B", Severity: entities.SeverityMinor},
				{DrugA: "B", DrugB: "A", Severity: entities.SeveritySevere},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.drugs, tt.records, nil, nil); err == nil {
				t.Error("expected a build error, got none")
			}
		})
	}
}

func TestBuildRejectsDanglingDosageBand(t *testing.T) {
	drugs := []entities.Drug{{ID: "A", Name: "Alpha", Class: "X"}}
	bands := []entities.DosageBand{{DrugID: "Z", AgeMin: 0, AgeMax: 120, Dose: 1, MaxDose: 2, Unit: "mg"}}

	if _, err := Build(drugs, nil, bands, nil); err == nil {
		t.Error("expected a build error for dangling band, got none")
	}
}

func TestBuildRejectsDanglingContraindication(t *testing.T) {
	drugs := []entities.Drug{{ID: "A", Name: "Alpha", Class: "X"}}
	contras := []entities.Contraindication{{DrugID: "Z", Warning: "Active bleeding"}}

	if _, err := Build(drugs, nil, nil, contras); err == nil {
		t.Error("expected a build error for dangling contraindication, got none")
	}
}

func TestContraindicationsOf(t *testing.T) {
	cat := buildTestCatalog(t)

	contras := cat.ContraindicationsOf("N02BA01")
	if len(contras) != 2 {
		t.Fatalf("expected 2 contraindications, got %d", len(contras))
	}
	// Ordered by warning text.
	if contras[0].Warning != "Active gastrointestinal bleeding" {
		t.Errorf("unexpected order: %+v", contras)
	}
	if contras[1].AgeMax == nil || *contras[1].AgeMax != 18 {
		t.Errorf("age bound not kept: %+v", contras[1])
	}
	if !contras[1].AppliesTo(17) || contras[1].AppliesTo(18) {
		t.Error("age-keyed contraindication must apply below 18 only")
	}

	if got := cat.ContraindicationsOf("B01AA03"); len(got) != 0 {
		t.Errorf("expected no contraindications, got %+v", got)
	}
}
