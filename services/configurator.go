package services

import (
	"math/rand"
	"strings"
	"time"
)

// Section is one of the two guideline-bearing accordions of the Invitro
// configurator.
type Section string

const (
	SectionSampleForm    Section = "sampleForm"
	SectionSampleSolvent Section = "sampleSolvent"
)

// ConfiguratorState is everything a study configurator page holds. The
// transition methods are pure: each returns the next state and leaves the
// receiver untouched.
type ConfiguratorState struct {
	StudyType     StudyType `json:"studyType"`
	ProductType   string    `json:"productType"`
	ActiveSection Section   `json:"activeSection"`
	IsEditMode    bool      `json:"isEditMode"`
	// Restoring is set while an edit-mode auto-fill is in progress so the
	// product-type change it triggers does not wipe the restored selection.
	Restoring bool `json:"restoring,omitempty"`

	EditingID string `json:"editingId,omitempty"`
	ConfigNo  string `json:"configNo,omitempty"`
	CreatedOn string `json:"createdOn,omitempty"`
	ValidTill string `json:"validTill,omitempty"`

	SampleForm          string `json:"sampleForm"`
	CustomSampleForm    string `json:"customSampleForm"`
	SampleSolvent       string `json:"sampleSolvent"`
	CustomSampleSolvent string `json:"customSampleSolvent"`
	NumSamples          int    `json:"numSamples"`

	SelectedGuidelines       []string `json:"selectedGuidelines"`
	CurrentSectionGuidelines []string `json:"currentSectionGuidelines"`
	SampleFormGuidelines     []string `json:"sampleFormGuidelines"`
	SampleSolventGuidelines  []string `json:"sampleSolventGuidelines"`

	SelectedTherapeuticAreas []string `json:"selectedTherapeuticAreas"`
	CustomTherapeuticArea    string   `json:"customTherapeuticArea"`
	Description              string   `json:"description"`

	MicroorganismType   string   `json:"microorganismType,omitempty"`
	Microorganisms      []string `json:"microorganisms,omitempty"`
	CustomMicroorganism string   `json:"customMicroorganism,omitempty"`
	Studies             []string `json:"studies,omitempty"`
	Applications        []string `json:"applications,omitempty"`
}

// NewConfiguratorState returns the default state of a configurator page.
func NewConfiguratorState(studyType StudyType, productType string) ConfiguratorState {
	return ConfiguratorState{
		StudyType:     studyType,
		ProductType:   productType,
		ActiveSection: SectionSampleForm,
		NumSamples:    1,
	}
}

// ProductTypeChanged switches the product category. Outside edit mode and
// outside a restore it resets every selection, since the reference tables
// differ per category.
func (s ConfiguratorState) ProductTypeChanged(productType string) ConfiguratorState {
	if s.ProductType == productType {
		return s
	}
	if s.IsEditMode || s.Restoring {
		s.ProductType = productType
		return s
	}
	return NewConfiguratorState(s.StudyType, productType)
}

// SectionExpanded makes section the active accordion. The displayed list is
// always the unified selection, in edit mode and out of it.
func (s ConfiguratorState) SectionExpanded(section Section) ConfiguratorState {
	s.ActiveSection = section
	s.CurrentSectionGuidelines = cloneStrings(s.SelectedGuidelines)
	return s
}

// GuidelinesChanged applies a selection from the guideline picker. The
// de-duplicated list is mirrored into the unified list, the displayed list
// and both section lists.
func (s ConfiguratorState) GuidelinesChanged(guidelines []string) ConfiguratorState {
	deduped := MergeGuidelines(guidelines)
	s.SelectedGuidelines = deduped
	s.CurrentSectionGuidelines = cloneStrings(deduped)
	s.SampleFormGuidelines = cloneStrings(deduped)
	s.SampleSolventGuidelines = cloneStrings(deduped)
	return s
}

// TherapeuticAreasChanged replaces the selected areas.
func (s ConfiguratorState) TherapeuticAreasChanged(areas []string) ConfiguratorState {
	s.SelectedTherapeuticAreas = MergeGuidelines(areas)
	return s
}

// AllTherapeuticAreasToggled selects every area of the current product type,
// or clears the selection when all are already selected.
func (s ConfiguratorState) AllTherapeuticAreasToggled() ConfiguratorState {
	key := s.areaTableKey()
	if AllAreasSelected(key, s.SelectedTherapeuticAreas) {
		s.SelectedTherapeuticAreas = nil
		return s
	}
	s.SelectedTherapeuticAreas = ListTherapeuticAreas(key)
	return s
}

// EditModeEntered repopulates the configurator from a saved cart item. The
// unified list starts as the union of both section lists, which may differ
// for items saved by older clients.
func (s ConfiguratorState) EditModeEntered(item CartItem) ConfiguratorState {
	next := NewConfiguratorState(item.StudyType, item.Category)
	next.IsEditMode = true
	next.EditingID = item.ID
	next.ConfigNo = item.ConfigNo
	next.CreatedOn = item.CreatedOn
	next.ValidTill = item.ValidTill

	next.SampleForm, next.CustomSampleForm = FromDisplayValue(item.SampleForm)
	next.SampleSolvent, next.CustomSampleSolvent = FromDisplayValue(item.SampleSolvent)
	if item.NumSamples > 0 {
		next.NumSamples = item.NumSamples
	}
	next.Description = item.Description

	next.SampleFormGuidelines = MergeGuidelines(item.SampleFormGuidelines)
	next.SampleSolventGuidelines = MergeGuidelines(item.SampleSolventGuidelines)
	switch {
	case len(next.SampleFormGuidelines) > 0:
		next.ActiveSection = SectionSampleForm
	case len(next.SampleSolventGuidelines) > 0:
		next.ActiveSection = SectionSampleSolvent
	default:
		next.ActiveSection = SectionSampleForm
	}
	next.SelectedGuidelines = MergeGuidelines(next.SampleFormGuidelines, next.SampleSolventGuidelines)
	if len(next.SelectedGuidelines) == 0 {
		next.SelectedGuidelines = MergeGuidelines(item.SelectedGuidelines)
	}
	next.CurrentSectionGuidelines = cloneStrings(next.SelectedGuidelines)

	for _, area := range item.SelectedTherapeuticAreas {
		if selected, custom := FromDisplayValue(area); selected == OthersOption {
			next.CustomTherapeuticArea = custom
			next.SelectedTherapeuticAreas = append(next.SelectedTherapeuticAreas, OthersOption)
			continue
		}
		next.SelectedTherapeuticAreas = append(next.SelectedTherapeuticAreas, area)
	}

	next.MicroorganismType = item.SelectedMicroorganismType
	next.Microorganisms = cloneStrings(item.SelectedMicroorganism)
	next.CustomMicroorganism = item.CustomMicroorganism
	next.Studies = cloneStrings(item.SelectedStudies)
	next.Applications = cloneStrings(item.SelectedApplications)
	return next
}

// EditModeExited leaves edit mode after a save or a cancel and resets every
// transient field, keeping only the study and product type.
func (s ConfiguratorState) EditModeExited() ConfiguratorState {
	return NewConfiguratorState(s.StudyType, s.ProductType)
}

// ToCartItem validates the state and builds a priced cart item. In edit mode
// the original id, config number and dates are carried over.
func (s ConfiguratorState) ToCartItem(now time.Time, rng *rand.Rand) (CartItem, error) {
	if err := ValidateConfiguration(s); err != nil {
		return CartItem{}, err
	}

	item := CartItem{
		StudyType:   s.StudyType,
		Category:    s.ProductType,
		NumSamples:  max(s.NumSamples, 1),
		Description: strings.TrimSpace(s.Description),
	}
	if s.IsEditMode {
		item.ID = s.EditingID
		item.ConfigNo = s.ConfigNo
		item.CreatedOn = s.CreatedOn
		item.ValidTill = s.ValidTill
	}

	if s.StudyType == StudyTypeMicrobiology {
		item.SelectedMicroorganismType = s.MicroorganismType
		item.SelectedMicroorganism = MergeGuidelines(s.Microorganisms)
		item.CustomMicroorganism = CapCustomText(s.CustomMicroorganism)
		item.SelectedStudies = MergeGuidelines(s.Studies)
		item.SelectedApplications = MergeGuidelines(s.Applications)
		item.ApplicationGuidelines = cloneStrings(item.SelectedStudies)
	} else {
		item.SampleForm = selectionValue(s.SampleForm, s.CustomSampleForm)
		item.SampleSolvent = selectionValue(s.SampleSolvent, s.CustomSampleSolvent)
		guidelines := MergeGuidelines(s.SelectedGuidelines, s.SampleFormGuidelines, s.SampleSolventGuidelines)
		item.SelectedGuidelines = guidelines
		item.SampleFormGuidelines = cloneStrings(guidelines)
		item.SampleSolventGuidelines = cloneStrings(guidelines)
		item.SelectedTherapeuticAreas = s.therapeuticAreas()
	}

	StampIdentity(&item, now, rng)
	PriceCartItem(&item)
	return item, nil
}

// PreviewPrice is the running price shown while the configurator is being
// filled in. It uses the same pricing as the cart item ToCartItem would build.
func (s ConfiguratorState) PreviewPrice() float64 {
	lookup := ResolverFor(s.StudyType)
	if s.StudyType == StudyTypeMicrobiology {
		return CalcMicrobiologyItemPrice(lookup, s.ProductType, s.Studies, s.Microorganisms, s.Applications)
	}
	guidelines := MergeGuidelines(s.SelectedGuidelines, s.SampleFormGuidelines, s.SampleSolventGuidelines)
	return CalcItemPrice(lookup, guidelines, s.therapeuticAreas())
}

// areaTableKey is the table whose areas the left-hand checklist shows.
// Toxicity studies list toxicity categories whatever the product type.
func (s ConfiguratorState) areaTableKey() string {
	if s.StudyType == StudyTypeToxicity {
		return TableToxicity
	}
	return TableKeyForProductType(s.ProductType)
}

// therapeuticAreas replaces an "Others" entry with its display value.
func (s ConfiguratorState) therapeuticAreas() []string {
	var areas []string
	for _, area := range s.SelectedTherapeuticAreas {
		if area == OthersOption {
			if strings.TrimSpace(s.CustomTherapeuticArea) == "" {
				continue
			}
			area = ToDisplayValue(OthersOption, s.CustomTherapeuticArea)
		}
		areas = append(areas, area)
	}
	return MergeGuidelines(areas)
}

// selectionValue stores an "Others" choice, or bare custom text, as the
// combined display string.
func selectionValue(selected, custom string) string {
	if selected == "" && strings.TrimSpace(custom) != "" {
		selected = OthersOption
	}
	return ToDisplayValue(selected, custom)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
