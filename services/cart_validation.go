package services

import (
	"fmt"
	"strings"
)

// ValidationError is a user-correctable problem with submitted input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Messages returned by ValidateConfiguration, one per failing check.
const (
	MsgSampleFormRequired      = "Please select a sample form"
	MsgSampleSolventRequired   = "Please select a sample solvent"
	MsgGuidelineRequired       = "Please select at least one guideline"
	MsgTherapeuticAreaRequired = "Please select at least one therapeutic area"
	MsgDescriptionRequired     = "Please enter a sample description"
	MsgCategoryRequired        = "Please select a disinfectant category"
	MsgMicroorganismRequired   = "Please select at least one microorganism"
	MsgStudyRequired           = "Please select at least one study"
)

// ValidateConfiguration runs the "Add to Cart" gate and returns the first
// failing check as a *ValidationError, or nil.
//
// Invitro and Toxicity checks run in this order: sample form, sample solvent,
// guideline, therapeutic area, description.
func ValidateConfiguration(s ConfiguratorState) error {
	if s.StudyType == StudyTypeMicrobiology {
		return validateMicrobiology(s)
	}

	if !hasSelection(s.SampleForm, s.CustomSampleForm) {
		return &ValidationError{Field: "sampleForm", Message: MsgSampleFormRequired}
	}
	if !hasSelection(s.SampleSolvent, s.CustomSampleSolvent) {
		return &ValidationError{Field: "sampleSolvent", Message: MsgSampleSolventRequired}
	}
	if len(MergeGuidelines(s.SelectedGuidelines, s.SampleFormGuidelines, s.SampleSolventGuidelines)) == 0 {
		return &ValidationError{Field: "guidelines", Message: MsgGuidelineRequired}
	}
	if len(s.therapeuticAreas()) == 0 {
		return &ValidationError{Field: "therapeuticAreas", Message: MsgTherapeuticAreaRequired}
	}
	if strings.TrimSpace(s.Description) == "" {
		return &ValidationError{Field: "description", Message: MsgDescriptionRequired}
	}
	return nil
}

func validateMicrobiology(s ConfiguratorState) error {
	if strings.TrimSpace(s.ProductType) == "" {
		return &ValidationError{Field: "category", Message: MsgCategoryRequired}
	}
	if len(s.Microorganisms) == 0 && strings.TrimSpace(s.CustomMicroorganism) == "" {
		return &ValidationError{Field: "microorganisms", Message: MsgMicroorganismRequired}
	}
	if len(MergeGuidelines(s.Studies)) == 0 {
		return &ValidationError{Field: "studies", Message: MsgStudyRequired}
	}
	if strings.TrimSpace(s.Description) == "" {
		return &ValidationError{Field: "description", Message: MsgDescriptionRequired}
	}
	return nil
}

// hasSelection accepts a canonical value, or "Others" backed by custom text,
// or custom text alone.
func hasSelection(selected, custom string) bool {
	custom = strings.TrimSpace(custom)
	if selected == OthersOption {
		return custom != ""
	}
	return selected != "" || custom != ""
}
