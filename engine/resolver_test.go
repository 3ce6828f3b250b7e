package engine

import (
	"reflect"
	"testing"

	"github.com/medsafe/interactions-api/catalog/entities"
)

func TestResolveInteractionsSmallPrescriptions(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name string
		ids  []string
	}{
		{"no drugs", nil},
		{"one drug", []string{"ASP"}},
		{"same drug twice", []string{"ASP", "ASP"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := ResolveInteractions(cat, tt.ids)
			if findings == nil {
				t.Fatal("expected empty slice, got nil")
			}
			if len(findings) != 0 {
				t.Errorf("expected no findings, got %d", len(findings))
			}
		})
	}
}

func TestResolveInteractionsOrderIndependent(t *testing.T) {
	cat := testCatalog(t)

	forward := ResolveInteractions(cat, []string{"ASP", "IBU", "WAR"})
	reversed := ResolveInteractions(cat, []string{"WAR", "IBU", "ASP"})

	if !reflect.DeepEqual(forward, reversed) {
		t.Errorf("findings depend on input order:\nforward:  %+v\nreversed: %+v", forward, reversed)
	}
	for _, finding := range forward {
		if finding.DrugA >= finding.DrugB {
			t.Errorf("pair %s/%s is not in lexical order", finding.DrugA, finding.DrugB)
		}
	}
}

func TestResolveInteractionsCompleteAndOrdered(t *testing.T) {
	cat := testCatalog(t)

	findings := ResolveInteractions(cat, []string{"PAR", "ASP", "IBU", "WAR"})

	// 4 drugs, every unordered pair exactly once.
	if len(findings) != 6 {
		t.Fatalf("expected 6 findings, got %d", len(findings))
	}

	want := []Finding{
		{DrugA: "ASP", DrugB: "WAR", Kind: FindingDocumented, Severity: entities.SeveritySevere, Mechanism: "Major bleeding risk"},
		{DrugA: "IBU", DrugB: "WAR", Kind: FindingDocumented, Severity: entities.SeveritySevere, Mechanism: "Major bleeding risk"},
		{DrugA: "ASP", DrugB: "IBU", Kind: FindingDocumented, Severity: entities.SeverityModerate, Mechanism: "Additive GI bleeding risk"},
		{DrugA: "PAR", DrugB: "WAR", Kind: FindingDocumented, Severity: entities.SeverityMinor, Mechanism: "May raise INR"},
		{DrugA: "ASP", DrugB: "PAR", Kind: FindingUndocumented},
		{DrugA: "IBU", DrugB: "PAR", Kind: FindingUndocumented},
	}
	if !reflect.DeepEqual(findings, want) {
		t.Errorf("unexpected findings:\ngot:  %+v\nwant: %+v", findings, want)
	}
}

func TestResolveInteractionsDocumentedNoneSortsAboveUndocumented(t *testing.T) {
	cat := testCatalog(t)

	findings := ResolveInteractions(cat, []string{"ASP", "CEL", "PAR"})
	if len(findings) != 3 {
		t.Fatalf("expected 3 findings, got %d", len(findings))
	}

	first := findings[0]
	if first.DrugA != "CEL" || first.DrugB != "PAR" || first.Kind != FindingDocumented {
		t.Errorf("expected documented CEL/PAR NONE finding first, got %+v", first)
	}
	for _, finding := range findings[1:] {
		if finding.Kind != FindingUndocumented {
			t.Errorf("expected undocumented finding after documented NONE, got %+v", finding)
		}
	}
}

func TestResolveInteractionsStableAcrossRebuilds(t *testing.T) {
	prescription := []string{"PAR", "ASP", "IBU", "WAR"}

	// Two catalogs built from the same dataset must answer identically.
	first := ResolveInteractions(testCatalog(t), prescription)
	second := ResolveInteractions(testCatalog(t), prescription)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("findings differ across rebuilds:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAggregateSeverity(t *testing.T) {
	cat := testCatalog(t)

	tests := []struct {
		name string
		ids  []string
		want entities.Severity
	}{
		{"no findings", nil, entities.SeverityNone},
		{"undocumented pairs only", []string{"ASP", "PAR"}, entities.SeverityNone},
		{"documented NONE", []string{"CEL", "PAR"}, entities.SeverityNone},
		{"maximum wins", []string{"PAR", "ASP", "WAR"}, entities.SeveritySevere},
		{"moderate pair", []string{"ASP", "IBU"}, entities.SeverityModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateSeverity(ResolveInteractions(cat, tt.ids))
			if got != tt.want {
				t.Errorf("AggregateSeverity = %v, want %v", got, tt.want)
			}
		})
	}
}
