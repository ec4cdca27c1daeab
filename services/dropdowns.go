package services

// SampleFormOptions lists the sample forms offered by the configurators.
var SampleFormOptions = []string{
	"Powder",
	"Liquid",
	"Gel",
	"Cream",
	"Tablet",
	"Capsule",
	"Extract",
	OthersOption,
}

// SampleSolventOptions lists the solvents a sample can be dissolved in.
var SampleSolventOptions = []string{
	"Water",
	"DMSO",
	"Ethanol",
	"Methanol",
	"PBS",
	OthersOption,
}

// MicroorganismOptions maps a microorganism type to its selectable strains.
var MicroorganismOptions = map[string][]string{
	"Bacteria": {
		"Staphylococcus aureus",
		"Escherichia coli",
		"Pseudomonas aeruginosa",
		"Enterococcus hirae",
		"Salmonella enterica",
	},
	"Virus": {
		"Influenza A (H1N1)",
		"Human Coronavirus 229E",
		"Adenovirus Type 5",
		"Poliovirus Type 1",
	},
	"Fungi": {
		"Candida albicans",
		"Aspergillus brasiliensis",
	},
}

// MicroorganismTypes is MicroorganismOptions' keys in display order.
var MicroorganismTypes = []string{"Bacteria", "Virus", "Fungi"}

// ApplicationOptions lists the application conditions for disinfectant studies.
var ApplicationOptions = []string{
	"Clean Conditions",
	"Dirty Conditions",
	"Hard Surface",
	"Skin Contact",
}

// StudyTypeOptions lists the study types in menu order.
var StudyTypeOptions = []StudyType{
	StudyTypeInvitro,
	StudyTypeToxicity,
	StudyTypeMicrobiology,
}

// ValidMicroorganism reports whether name belongs to microorganismType.
func ValidMicroorganism(microorganismType, name string) bool {
	for _, m := range MicroorganismOptions[microorganismType] {
		if m == name {
			return true
		}
	}
	return false
}
