package services

import (
	"testing"
)

func TestSampleOptionsEndWithOthers(t *testing.T) {
	for name, opts := range map[string][]string{
		"sample form":    SampleFormOptions,
		"sample solvent": SampleSolventOptions,
	} {
		if len(opts) == 0 {
			t.Fatalf("%s options should not be empty", name)
		}
		if opts[len(opts)-1] != OthersOption {
			t.Errorf("%s options should end with %q, got %q", name, OthersOption, opts[len(opts)-1])
		}
		for _, opt := range opts {
			if opt == "" {
				t.Errorf("%s options contain empty string", name)
			}
		}
	}
}

func TestMicroorganismTypesMatchOptions(t *testing.T) {
	if len(MicroorganismTypes) != len(MicroorganismOptions) {
		t.Fatalf("expected %d microorganism types, got %d", len(MicroorganismOptions), len(MicroorganismTypes))
	}
	for _, typ := range MicroorganismTypes {
		if len(MicroorganismOptions[typ]) == 0 {
			t.Errorf("microorganism type %q has no options", typ)
		}
	}
}

func TestValidMicroorganism(t *testing.T) {
	tests := []struct {
		typ, name string
		want      bool
	}{
		{"Bacteria", "Escherichia coli", true},
		{"Virus", "Escherichia coli", false},
		{"Unknown", "Escherichia coli", false},
	}
	for _, tt := range tests {
		if got := ValidMicroorganism(tt.typ, tt.name); got != tt.want {
			t.Errorf("ValidMicroorganism(%q, %q) = %v, want %v", tt.typ, tt.name, got, tt.want)
		}
	}
}

func TestStudyTypeOptions(t *testing.T) {
	expected := []StudyType{StudyTypeInvitro, StudyTypeToxicity, StudyTypeMicrobiology}
	if len(StudyTypeOptions) != len(expected) {
		t.Fatalf("expected %d study types, got %d", len(expected), len(StudyTypeOptions))
	}
	for i, v := range expected {
		if StudyTypeOptions[i] != v {
			t.Errorf("StudyTypeOptions[%d] = %q, want %q", i, StudyTypeOptions[i], v)
		}
	}
}
