package services

import (
	"slices"
	"testing"
)

func TestResolver_FirstMatchWins(t *testing.T) {
	r := NewResolver(
		[]ReferenceRecord{{TherapeuticArea: "A", StudyName: "S", Price: 1}},
		[]ReferenceRecord{{TherapeuticArea: "A", StudyName: "S", Price: 2}},
	)
	rec, ok := r.Resolve("A", "S")
	if !ok || rec.Price != 1 {
		t.Errorf("Resolve() = %+v, %v; want price 1 from the first table", rec, ok)
	}
	if _, ok := r.Resolve("a", "S"); ok {
		t.Error("Resolve() matched a different-case area")
	}
}

func TestResolve_AcrossProductTables(t *testing.T) {
	tests := []struct {
		area, study string
		wantPrice   int
	}{
		{"Anti-diabetic", "Alpha-Amylase Inhibition Assay", 18000},
		{"Anti-aging", "Collagenase Inhibition Assay", 22000},
	}
	for _, tt := range tests {
		rec, ok := Resolve(tt.area, tt.study)
		if !ok {
			t.Errorf("Resolve(%q, %q) not found", tt.area, tt.study)
			continue
		}
		if rec.Price != tt.wantPrice {
			t.Errorf("Resolve(%q, %q) price = %d, want %d", tt.area, tt.study, rec.Price, tt.wantPrice)
		}
	}
	if _, ok := Resolve("Acute Toxicity", "OECD 423 - Acute Oral Toxicity"); ok {
		t.Error("toxicity studies must not resolve through the Invitro resolver")
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5%", 5},
		{"5 %", 5},
		{" 10% ", 10},
		{"7.5", 7.5},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := ParsePercent(tt.in); got != tt.want {
			t.Errorf("ParsePercent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTotalDuration(t *testing.T) {
	tests := []struct {
		base     int
		discount string
		want     int
	}{
		{30, "5%", 32},
		{60, "10%", 66},
		{21, "5%", 22},
		{14, "", 14},
		{10, "bogus", 10},
		{0, "10%", 0},
	}
	for _, tt := range tests {
		if got := TotalDuration(tt.base, tt.discount); got != tt.want {
			t.Errorf("TotalDuration(%d, %q) = %d, want %d", tt.base, tt.discount, got, tt.want)
		}
	}
}

func TestDetailDuration(t *testing.T) {
	lookup := testLookup()
	if got := DetailDuration(lookup, "A", "G1"); got != 11 {
		t.Errorf("DetailDuration(A, G1) = %d, want 11", got)
	}
	if got := DetailDuration(lookup, "A", "missing"); got != DefaultDetailDuration {
		t.Errorf("DetailDuration(missing) = %d, want %d", got, DefaultDetailDuration)
	}
}

func TestListTherapeuticAreas(t *testing.T) {
	areas := ListTherapeuticAreas(TableNutraceuticals)
	if !slices.IsSorted(areas) {
		t.Errorf("areas not sorted: %v", areas)
	}
	if len(areas) != len(slices.Compact(slices.Clone(areas))) {
		t.Errorf("areas contain duplicates: %v", areas)
	}
	if !slices.Contains(areas, "Anti-diabetic") {
		t.Errorf("expected Anti-diabetic in %v", areas)
	}
}

func TestAllAreasSelected(t *testing.T) {
	all := ListTherapeuticAreas(TableToxicity)
	if !AllAreasSelected(TableToxicity, all) {
		t.Error("expected every area to count as all selected")
	}
	if AllAreasSelected(TableToxicity, all[1:]) {
		t.Error("expected a partial selection to not count as all selected")
	}
	if AllAreasSelected(TableToxicity, nil) {
		t.Error("expected an empty selection to not count as all selected")
	}
}

func TestTableKeyForProductType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"nutraceuticals", TableNutraceuticals},
		{"Herbal/Ayush", TableHerbalAyush},
		{"Pharmaceuticals", TablePharmaceuticals},
		{"unknown", TableNutraceuticals},
	}
	for _, tt := range tests {
		if got := TableKeyForProductType(tt.in); got != tt.want {
			t.Errorf("TableKeyForProductType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceReferenceTables(t *testing.T) {
	t.Cleanup(ResetReferenceTables)

	ReplaceReferenceTables(map[string][]ReferenceRecord{
		TableNutraceuticals: {{TherapeuticArea: "Gut Health", StudyName: "Probiotic Adhesion Assay", Price: 27000, Duration: 21, Discount: "5%"}},
		"plastics":          {{TherapeuticArea: "X", StudyName: "Y", Price: 1}},
	})

	if _, ok := Resolve("Gut Health", "Probiotic Adhesion Assay"); !ok {
		t.Error("expected replaced table to resolve")
	}
	if _, ok := Resolve("Anti-diabetic", "DPP-IV Inhibition Assay"); ok {
		t.Error("expected old nutraceuticals rows to be gone")
	}
	if _, ok := Resolve("Anti-aging", "Collagenase Inhibition Assay"); !ok {
		t.Error("expected other tables to be kept")
	}
	if _, ok := Resolve("X", "Y"); ok {
		t.Error("unknown table keys must be ignored")
	}
	if got := len(BuiltinTable(TableNutraceuticals)); got == 1 {
		t.Error("built-in table must not change")
	}

	ResetReferenceTables()
	if _, ok := Resolve("Anti-diabetic", "DPP-IV Inhibition Assay"); !ok {
		t.Error("expected reset to restore the built-in rows")
	}
}

func TestLoadTable_ReturnsCopy(t *testing.T) {
	table := LoadTable(TableToxicity)
	table[0].Price = 1
	if LoadTable(TableToxicity)[0].Price == 1 {
		t.Error("LoadTable must return a copy")
	}
}
