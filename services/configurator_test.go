package services

import (
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"
)

func filledInvitroState() ConfiguratorState {
	s := NewConfiguratorState(StudyTypeInvitro, "Nutraceuticals")
	s.SampleForm = "Powder"
	s.SampleSolvent = "Water"
	s.Description = "Dried leaf extract"
	s = s.GuidelinesChanged([]string{"Alpha-Amylase Inhibition Assay", "DPP-IV Inhibition Assay"})
	return s.TherapeuticAreasChanged([]string{"Anti-diabetic"})
}

func TestConfiguratorState_ProductTypeChanged(t *testing.T) {
	s := filledInvitroState()

	reset := s.ProductTypeChanged("Cosmeceuticals")
	if reset.ProductType != "Cosmeceuticals" || len(reset.SelectedGuidelines) != 0 || reset.SampleForm != "" {
		t.Errorf("expected a reset state, got %+v", reset)
	}
	if len(s.SelectedGuidelines) == 0 {
		t.Error("transition must not modify the receiver")
	}

	same := s.ProductTypeChanged("Nutraceuticals")
	if !slices.Equal(same.SelectedGuidelines, s.SelectedGuidelines) {
		t.Error("re-selecting the same product type must keep the selection")
	}

	s.IsEditMode = true
	kept := s.ProductTypeChanged("Cosmeceuticals")
	if kept.ProductType != "Cosmeceuticals" || len(kept.SelectedGuidelines) == 0 {
		t.Errorf("edit mode must keep the selection, got %+v", kept)
	}

	s.IsEditMode = false
	s.Restoring = true
	if restored := s.ProductTypeChanged("Cosmeceuticals"); len(restored.SelectedGuidelines) == 0 {
		t.Error("a restore in progress must keep the selection")
	}
}

func TestConfiguratorState_GuidelinesMirrored(t *testing.T) {
	s := NewConfiguratorState(StudyTypeInvitro, "Nutraceuticals").
		GuidelinesChanged([]string{"A", "B", "A"})

	want := []string{"A", "B"}
	for name, got := range map[string][]string{
		"selected":     s.SelectedGuidelines,
		"current":      s.CurrentSectionGuidelines,
		"sampleForm":   s.SampleFormGuidelines,
		"sampleSolven": s.SampleSolventGuidelines,
	} {
		if !slices.Equal(got, want) {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	expanded := s.SectionExpanded(SectionSampleSolvent)
	if expanded.ActiveSection != SectionSampleSolvent || !slices.Equal(expanded.CurrentSectionGuidelines, want) {
		t.Errorf("SectionExpanded = %+v", expanded)
	}
}

func TestConfiguratorState_AllTherapeuticAreasToggled(t *testing.T) {
	s := NewConfiguratorState(StudyTypeInvitro, "Cosmeceuticals")
	all := s.AllTherapeuticAreasToggled()
	if !slices.Equal(all.SelectedTherapeuticAreas, ListTherapeuticAreas(TableCosmeceuticals)) {
		t.Errorf("toggle on = %v", all.SelectedTherapeuticAreas)
	}
	if none := all.AllTherapeuticAreasToggled(); len(none.SelectedTherapeuticAreas) != 0 {
		t.Errorf("toggle off = %v", none.SelectedTherapeuticAreas)
	}

	tox := NewConfiguratorState(StudyTypeToxicity, "Pharmaceuticals").AllTherapeuticAreasToggled()
	if !slices.Equal(tox.SelectedTherapeuticAreas, ListTherapeuticAreas(TableToxicity)) {
		t.Errorf("toxicity toggle = %v", tox.SelectedTherapeuticAreas)
	}
}

func TestConfiguratorState_EditRoundTrip(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(9))

	s := filledInvitroState()
	s.SampleForm = OthersOption
	s.CustomSampleForm = "Granules"
	s.SelectedTherapeuticAreas = append(s.SelectedTherapeuticAreas, OthersOption)
	s.CustomTherapeuticArea = "Sleep"

	item, err := s.ToCartItem(now, rng)
	if err != nil {
		t.Fatalf("ToCartItem: %v", err)
	}
	if item.SampleForm != "Others (Granules)" {
		t.Errorf("SampleForm = %q", item.SampleForm)
	}
	if !slices.Equal(item.SelectedTherapeuticAreas, []string{"Anti-diabetic", "Others (Sleep)"}) {
		t.Errorf("areas = %v", item.SelectedTherapeuticAreas)
	}
	if item.Price != 18000+32000 {
		t.Errorf("Price = %v, want 50000", item.Price)
	}

	edit := ConfiguratorState{}.EditModeEntered(item)
	if !edit.IsEditMode || edit.EditingID != item.ID || edit.ConfigNo != item.ConfigNo {
		t.Errorf("edit identity = %+v", edit)
	}
	if edit.SampleForm != OthersOption || edit.CustomSampleForm != "Granules" {
		t.Errorf("sample form = %q / %q", edit.SampleForm, edit.CustomSampleForm)
	}
	if edit.CustomTherapeuticArea != "Sleep" || !slices.Contains(edit.SelectedTherapeuticAreas, OthersOption) {
		t.Errorf("custom area not restored: %+v", edit.SelectedTherapeuticAreas)
	}

	later := now.AddDate(0, 0, 5)
	edited, err := edit.GuidelinesChanged([]string{"Alpha-Amylase Inhibition Assay"}).ToCartItem(later, rng)
	if err != nil {
		t.Fatalf("ToCartItem (edit): %v", err)
	}
	if edited.ID != item.ID || edited.ConfigNo != item.ConfigNo || edited.CreatedOn != item.CreatedOn {
		t.Errorf("edit changed identity: %+v vs %+v", edited, item)
	}
	if edited.Price != 18000 {
		t.Errorf("edited Price = %v, want 18000", edited.Price)
	}

	exited := edit.EditModeExited()
	if exited.IsEditMode || exited.EditingID != "" || exited.ProductType != "Nutraceuticals" {
		t.Errorf("EditModeExited = %+v", exited)
	}
}

func TestConfiguratorState_EditModeUnionOfSections(t *testing.T) {
	item := CartItem{
		ID:                      "x",
		StudyType:               StudyTypeInvitro,
		Category:                "Nutraceuticals",
		SelectedGuidelines:      []string{"stale"},
		SampleFormGuidelines:    nil,
		SampleSolventGuidelines: []string{"B", "C"},
	}
	s := ConfiguratorState{}.EditModeEntered(item)
	if s.ActiveSection != SectionSampleSolvent {
		t.Errorf("ActiveSection = %s, want sampleSolvent", s.ActiveSection)
	}
	if !slices.Equal(s.SelectedGuidelines, []string{"B", "C"}) {
		t.Errorf("SelectedGuidelines = %v", s.SelectedGuidelines)
	}

	legacy := ConfiguratorState{}.EditModeEntered(CartItem{ID: "y", SelectedGuidelines: []string{"A"}})
	if !slices.Equal(legacy.SelectedGuidelines, []string{"A"}) {
		t.Errorf("legacy item guidelines = %v", legacy.SelectedGuidelines)
	}
}

func TestConfiguratorState_ToCartItemValidates(t *testing.T) {
	s := filledInvitroState()
	s.Description = " "
	_, err := s.ToCartItem(time.Now(), rand.New(rand.NewSource(1)))
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Message != MsgDescriptionRequired {
		t.Errorf("err = %v, want description required", err)
	}
}

func TestConfiguratorState_Microbiology(t *testing.T) {
	s := NewConfiguratorState(StudyTypeMicrobiology, "Surface Disinfectant")
	s.MicroorganismType = "Bacteria"
	s.Microorganisms = []string{"E. coli", "S. aureus"}
	s.Studies = []string{"EN 13697 - Quantitative Surface Test"}
	s.Applications = []string{"Hard Surface", "Food Contact"}
	s.Description = "Quat based spray"

	if got := s.PreviewPrice(); got != 40000*2*2 {
		t.Errorf("PreviewPrice = %v, want 160000", got)
	}

	item, err := s.ToCartItem(time.Now(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("ToCartItem: %v", err)
	}
	if item.Price != s.PreviewPrice() {
		t.Errorf("item price %v differs from preview %v", item.Price, s.PreviewPrice())
	}
	if !slices.Equal(item.ApplicationGuidelines, item.SelectedStudies) {
		t.Errorf("ApplicationGuidelines = %v", item.ApplicationGuidelines)
	}
}

func TestConfiguratorState_PreviewPriceMatchesCartItem(t *testing.T) {
	s := filledInvitroState()
	item, err := s.ToCartItem(time.Now(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("ToCartItem: %v", err)
	}
	if s.PreviewPrice() != item.Price {
		t.Errorf("PreviewPrice = %v, cart item price = %v", s.PreviewPrice(), item.Price)
	}
}
