package services

import (
	"math/rand"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestAssignQuotationNumbers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name        string
		items       []CartItem
		wantNumber  string
		wantNumbers []string
	}{
		{"single item uses its config number", []CartItem{{ConfigNo: "RR123456"}}, "RR123456", []string{"RR123456"}},
		{"leading hash stripped", []CartItem{{ConfigNo: "#RR123456"}}, "RR123456", []string{"RR123456"}},
		{
			"several items are suffixed",
			[]CartItem{{ConfigNo: "RR111111"}, {ConfigNo: "RR222222"}, {ConfigNo: ""}},
			"RR111111",
			[]string{"RR111111-1", "RR111111-2", "RR111111-3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, numbers := AssignQuotationNumbers(tt.items, rng)
			if number != tt.wantNumber {
				t.Errorf("number = %q, want %q", number, tt.wantNumber)
			}
			if !slices.Equal(numbers, tt.wantNumbers) {
				t.Errorf("numbers = %v, want %v", numbers, tt.wantNumbers)
			}
		})
	}

	number, _ := AssignQuotationNumbers([]CartItem{{}}, rng)
	if !regexp.MustCompile(`^RR\d{6}$`).MatchString(number) {
		t.Errorf("generated number %q", number)
	}
}

func TestCalcQuotationSummary(t *testing.T) {
	tests := []struct {
		name      string
		lines     []QuotationGuideline
		wantSub   float64
		wantGST   float64
		wantGrand float64
	}{
		{"round numbers", []QuotationGuideline{{UnitPrice: 1000, Qty: 1}}, 1000, 180, 1180},
		{"qty multiplies", []QuotationGuideline{{UnitPrice: 18000, Qty: 2}, {UnitPrice: 12000, Qty: 1}}, 48000, 8640, 56640},
		{"paise rounded", []QuotationGuideline{{UnitPrice: 0.1, Qty: 3}}, 0.3, 0.05, 0.35},
		{"empty", nil, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CalcQuotationSummary([]QuotationProduct{{Guidelines: tt.lines}})
			if s.SubTotal != tt.wantSub || s.GSTAmount != tt.wantGST || s.GrandTotal != tt.wantGrand {
				t.Errorf("summary = %+v, want %v / %v / %v", s, tt.wantSub, tt.wantGST, tt.wantGrand)
			}
			if s.GSTPercent != GSTPercent {
				t.Errorf("GSTPercent = %v", s.GSTPercent)
			}
		})
	}
}

func TestBuildQuotationProduct_Invitro(t *testing.T) {
	item := CartItem{
		ID:                       "a",
		StudyType:                StudyTypeInvitro,
		Category:                 "Nutraceuticals",
		SampleForm:               "Powder",
		SampleSolvent:            "Water",
		NumSamples:               2,
		SelectedGuidelines:       []string{"Alpha-Amylase Inhibition Assay", "Glucose Uptake Assay (L6 Myotubes)", "Made Up Assay"},
		SelectedTherapeuticAreas: []string{"Anti-diabetic"},
		Description:              "Leaf extract",
	}
	p := BuildQuotationProduct(item)

	if p.Title != "Invitro Study - Nutraceuticals" {
		t.Errorf("Title = %q", p.Title)
	}
	if len(p.Guidelines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(p.Guidelines))
	}
	first := p.Guidelines[0]
	if first.Qty != 2 || first.UnitPrice != 18000 || first.LineTotal != 36000 || first.DurationDays != 22 {
		t.Errorf("first line = %+v", first)
	}
	unknown := p.Guidelines[2]
	if unknown.UnitPrice != 0 || unknown.LineTotal != 0 || unknown.DurationDays != DefaultDetailDuration {
		t.Errorf("unresolvable line = %+v", unknown)
	}
	// Glucose uptake: 30 days + 10%
	if p.EstimatedDays != 33 {
		t.Errorf("EstimatedDays = %d, want 33", p.EstimatedDays)
	}

	joined := strings.Join(p.Details, "\n")
	for _, want := range []string{"Sample Form: Powder", "Therapeutic Areas: Anti-diabetic", "No. of Samples: 2", "Sample Description: Leaf extract"} {
		if !strings.Contains(joined, want) {
			t.Errorf("details missing %q:\n%s", want, joined)
		}
	}
}

func TestBuildQuotationProduct_Microbiology(t *testing.T) {
	item := CartItem{
		StudyType:                 StudyTypeMicrobiology,
		Category:                  "Hand Sanitizer",
		NumSamples:                1,
		SelectedMicroorganismType: "Bacteria",
		SelectedMicroorganism:     []string{"E. coli"},
		CustomMicroorganism:       "Local isolate",
		SelectedStudies:           []string{"EN 1276 - Bactericidal Suspension Test"},
		SelectedApplications:      []string{"Hands", "Surfaces"},
	}
	p := BuildQuotationProduct(item)

	if len(p.Guidelines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(p.Guidelines))
	}
	line := p.Guidelines[0]
	if line.Qty != 2 || line.UnitPrice != 30000 || line.LineTotal != 60000 {
		t.Errorf("line = %+v", line)
	}
	joined := strings.Join(p.Details, "\n")
	if !strings.Contains(joined, "Microorganisms: E. coli, Others (Local isolate)") {
		t.Errorf("details = %s", joined)
	}
	if !strings.Contains(joined, "Applications: Hands, Surfaces") {
		t.Errorf("details = %s", joined)
	}
}

func TestBuildQuotation(t *testing.T) {
	now := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	items := []CartItem{
		{ID: "a", StudyType: StudyTypeInvitro, Category: "Nutraceuticals", NumSamples: 1,
			SelectedGuidelines: []string{"Alpha-Amylase Inhibition Assay"}, SelectedTherapeuticAreas: []string{"Anti-diabetic"}},
		{ID: "b", StudyType: StudyTypeToxicity, Category: "Pharmaceuticals", NumSamples: 1,
			SelectedGuidelines: []string{"OECD 423 - Acute Oral Toxicity"}, SelectedTherapeuticAreas: []string{"Acute Toxicity"}},
	}
	q := BuildQuotation("RR1", []string{"RR1-1", "RR1-2"}, items, CustomerDetails{Name: "Asha"}, now)

	if q.Date != "15/01/2025" || q.ValidTill != "14/02/2025" {
		t.Errorf("dates = %s / %s", q.Date, q.ValidTill)
	}
	if q.Products[0].Number != "RR1-1" || q.Products[1].Number != "RR1-2" {
		t.Errorf("numbers = %s, %s", q.Products[0].Number, q.Products[1].Number)
	}
	if q.Summary.SubTotal != 18000+85000 {
		t.Errorf("SubTotal = %v", q.Summary.SubTotal)
	}
	if q.Summary.GrandTotal != 121540 {
		t.Errorf("GrandTotal = %v, want 121540", q.Summary.GrandTotal)
	}
}

func TestGetFiscalYear(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC), "25-26"},
		{time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), "25-26"},
		{time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), "26-27"},
		{time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC), "99-00"},
	}
	for _, tt := range tests {
		if got := GetFiscalYear(tt.date); got != tt.want {
			t.Errorf("GetFiscalYear(%s) = %q, want %q", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestQuotationFilename(t *testing.T) {
	if got := QuotationFilename("RR123456"); got != "Quotation-RR123456.pdf" {
		t.Errorf("QuotationFilename = %q", got)
	}
}
