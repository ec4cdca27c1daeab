package services

import (
	"slices"
	"sync"
)

// ReferenceRecord is one priced study offered under a therapeutic area (or a
// toxicity / disinfectant category) for a product type.
//
// Discount is stored as a percentage string such as "5%". Despite the name it
// inflates the study duration, see TotalDuration.
type ReferenceRecord struct {
	ProductType     string `json:"productType"`
	ProductForm     string `json:"productForm"`
	ProductSolvent  string `json:"productSolvent"`
	TherapeuticArea string `json:"therapeuticArea"`
	StudyName       string `json:"studyName"`
	Price           int    `json:"price"`
	Duration        int    `json:"duration"`
	Discount        string `json:"discount"`
}

// Product type table keys.
const (
	TableNutraceuticals  = "nutraceuticals"
	TableCosmeceuticals  = "cosmeceuticals"
	TablePharmaceuticals = "pharmaceuticals"
	TableHerbalAyush     = "herbalAyush"
	TableToxicity        = "toxicity"
	TableDisinfectants   = "disinfectants"
)

// ProductTypeKeys lists the Invitro product-type tables in lookup order.
var ProductTypeKeys = []string{
	TableNutraceuticals,
	TableCosmeceuticals,
	TablePharmaceuticals,
	TableHerbalAyush,
}

// AllTableKeys lists every reference table.
var AllTableKeys = []string{
	TableNutraceuticals,
	TableCosmeceuticals,
	TablePharmaceuticals,
	TableHerbalAyush,
	TableToxicity,
	TableDisinfectants,
}

// ProductTypeLabels maps a table key to the product type shown to customers.
var ProductTypeLabels = map[string]string{
	TableNutraceuticals:  "Nutraceuticals",
	TableCosmeceuticals:  "Cosmeceuticals",
	TablePharmaceuticals: "Pharmaceuticals",
	TableHerbalAyush:     "Herbal/Ayush",
	TableToxicity:        "Toxicity",
	TableDisinfectants:   "Disinfectants",
}

type studyRow struct {
	area     string
	study    string
	price    int
	duration int
	discount string
}

func buildTable(productType, form, solvent string, rows []studyRow) []ReferenceRecord {
	records := make([]ReferenceRecord, len(rows))
	for i, r := range rows {
		records[i] = ReferenceRecord{
			ProductType:     productType,
			ProductForm:     form,
			ProductSolvent:  solvent,
			TherapeuticArea: r.area,
			StudyName:       r.study,
			Price:           r.price,
			Duration:        r.duration,
			Discount:        r.discount,
		}
	}
	return records
}

var nutraceuticalsTable = buildTable("Nutraceuticals", "Powder / Extract / Capsule", "Water / DMSO / Ethanol", []studyRow{
	{"Anti-diabetic", "Alpha-Amylase Inhibition Assay", 18000, 21, "5%"},
	{"Anti-diabetic", "Alpha-Glucosidase Inhibition Assay", 20000, 21, "5%"},
	{"Anti-diabetic", "Glucose Uptake Assay (L6 Myotubes)", 45000, 30, "10%"},
	{"Anti-diabetic", "DPP-IV Inhibition Assay", 32000, 21, "5%"},
	{"Antioxidant", "DPPH Radical Scavenging Assay", 12000, 14, "5%"},
	{"Antioxidant", "ABTS Radical Scavenging Assay", 12000, 14, "5%"},
	{"Antioxidant", "FRAP Assay", 10000, 14, "5%"},
	{"Antioxidant", "Cellular ROS Assay (DCFDA)", 38000, 30, "10%"},
	{"Anti-inflammatory", "Nitric Oxide Inhibition Assay (RAW 264.7)", 35000, 30, "10%"},
	{"Anti-inflammatory", "COX-2 Inhibition Assay", 30000, 21, "5%"},
	{"Anti-inflammatory", "TNF-alpha ELISA", 42000, 30, "10%"},
	{"Anti-inflammatory", "Cytotoxicity Assay (MTT)", 15000, 14, "5%"},
	{"Anti-obesity", "Pancreatic Lipase Inhibition Assay", 20000, 21, "5%"},
	{"Anti-obesity", "Adipogenesis Assay (3T3-L1)", 55000, 45, "10%"},
	{"Anti-obesity", "Cytotoxicity Assay (MTT)", 15000, 14, "5%"},
	{"Hepatoprotective", "HepG2 Cytoprotection Assay", 40000, 30, "10%"},
	{"Hepatoprotective", "Cytotoxicity Assay (MTT)", 15000, 14, "5%"},
	{"Immunomodulatory", "Lymphocyte Proliferation Assay", 48000, 30, "10%"},
	{"Immunomodulatory", "Phagocytosis Assay", 36000, 21, "5%"},
})

var cosmeceuticalsTable = buildTable("Cosmeceuticals", "Cream / Gel / Serum / Lotion", "Water / Ethanol / Propylene Glycol", []studyRow{
	{"Anti-aging", "Collagenase Inhibition Assay", 22000, 21, "5%"},
	{"Anti-aging", "Elastase Inhibition Assay", 22000, 21, "5%"},
	{"Anti-aging", "Hyaluronidase Inhibition Assay", 24000, 21, "5%"},
	{"Anti-aging", "Cytotoxicity Assay (MTT)", 15000, 14, "5%"},
	{"Skin Whitening", "Tyrosinase Inhibition Assay", 18000, 21, "5%"},
	{"Skin Whitening", "Melanin Content Assay (B16F10)", 45000, 30, "10%"},
	{"Wound Healing", "Scratch Wound Assay", 40000, 30, "10%"},
	{"Wound Healing", "Fibroblast Proliferation Assay", 35000, 21, "5%"},
	{"Photoprotection", "In vitro SPF Determination", 25000, 14, "5%"},
	{"Photoprotection", "UV-induced ROS Assay", 38000, 30, "10%"},
	{"Hair Growth", "5-alpha Reductase Inhibition Assay", 30000, 21, "5%"},
	{"Hair Growth", "Dermal Papilla Proliferation Assay", 50000, 30, "10%"},
})

var pharmaceuticalsTable = buildTable("Pharmaceuticals", "Tablet / Injectable / API", "DMSO / Saline / Methanol", []studyRow{
	{"Anti-cancer", "Cytotoxicity Assay (MTT)", 15000, 14, "5%"},
	{"Anti-cancer", "Apoptosis Assay (Annexin V)", 55000, 30, "10%"},
	{"Anti-cancer", "Cell Cycle Analysis", 60000, 30, "10%"},
	{"Anti-cancer", "Colony Formation Assay", 40000, 30, "10%"},
	{"Anti-microbial", "MIC Determination", 15000, 14, "5%"},
	{"Anti-microbial", "MBC Determination", 15000, 14, "5%"},
	{"Anti-microbial", "Time-Kill Kinetics", 28000, 21, "5%"},
	{"Anti-inflammatory", "COX-2 Inhibition Assay", 32000, 21, "5%"},
	{"Anti-inflammatory", "IL-6 ELISA", 42000, 30, "10%"},
	{"Cardioprotective", "H9c2 Cytoprotection Assay", 45000, 30, "10%"},
	{"Neuroprotective", "Acetylcholinesterase Inhibition Assay", 20000, 21, "5%"},
	{"Neuroprotective", "SH-SY5Y Neuroprotection Assay", 50000, 30, "10%"},
})

var herbalAyushTable = buildTable("Herbal/Ayush", "Churna / Kwath / Extract", "Water / Hydroalcohol", []studyRow{
	{"Anti-diabetic", "Alpha-Amylase Inhibition Assay", 16000, 21, "5%"},
	{"Anti-diabetic", "Alpha-Glucosidase Inhibition Assay", 18000, 21, "5%"},
	{"Antioxidant", "DPPH Radical Scavenging Assay", 10000, 14, "5%"},
	{"Antioxidant", "Total Phenolic Content", 8000, 10, "5%"},
	{"Antioxidant", "Total Flavonoid Content", 8000, 10, "5%"},
	{"Immunomodulatory", "Lymphocyte Proliferation Assay", 45000, 30, "10%"},
	{"Rasayana / Adaptogenic", "Cortisol Modulation Assay", 40000, 30, "10%"},
	{"Hepatoprotective", "HepG2 Cytoprotection Assay", 38000, 30, "10%"},
})

var toxicityTable = buildTable("Toxicity", "Any", "Vehicle as per guideline", []studyRow{
	{"Acute Toxicity", "OECD 423 - Acute Oral Toxicity", 85000, 30, "10%"},
	{"Acute Toxicity", "OECD 402 - Acute Dermal Toxicity", 90000, 30, "10%"},
	{"Acute Toxicity", "OECD 403 - Acute Inhalation Toxicity", 150000, 45, "10%"},
	{"Repeated Dose Toxicity", "OECD 407 - 28-Day Oral Toxicity", 350000, 60, "10%"},
	{"Repeated Dose Toxicity", "OECD 408 - 90-Day Oral Toxicity", 850000, 120, "10%"},
	{"Genotoxicity", "OECD 471 - Bacterial Reverse Mutation (Ames)", 120000, 30, "5%"},
	{"Genotoxicity", "OECD 487 - In vitro Micronucleus", 180000, 45, "10%"},
	{"Skin & Eye Irritation", "OECD 439 - In vitro Skin Irritation", 95000, 30, "5%"},
	{"Skin & Eye Irritation", "OECD 492 - Eye Irritation (RhCE)", 95000, 30, "5%"},
	{"Skin & Eye Irritation", "OECD 404 - Acute Dermal Irritation", 70000, 21, "5%"},
	{"Sensitization", "OECD 442C - DPRA", 110000, 30, "5%"},
	{"Sensitization", "OECD 406 - Skin Sensitization (GPMT)", 160000, 45, "10%"},
})

var disinfectantsTable = buildTable("Disinfectants", "Liquid / Gel / Wipe / Spray", "Hard water / Neat", []studyRow{
	{"Hand Sanitizer", "EN 1500 - Hygienic Handrub", 45000, 21, "5%"},
	{"Hand Sanitizer", "EN 1276 - Bactericidal Suspension Test", 30000, 14, "5%"},
	{"Hand Sanitizer", "EN 14476 - Virucidal Suspension Test", 65000, 30, "10%"},
	{"Surface Disinfectant", "EN 1276 - Bactericidal Suspension Test", 30000, 14, "5%"},
	{"Surface Disinfectant", "EN 13697 - Quantitative Surface Test", 40000, 21, "5%"},
	{"Surface Disinfectant", "EN 1650 - Fungicidal Suspension Test", 32000, 14, "5%"},
	{"Surface Disinfectant", "EN 14476 - Virucidal Suspension Test", 65000, 30, "10%"},
	{"Instrument Disinfectant", "EN 14561 - Bactericidal Carrier Test", 42000, 21, "5%"},
	{"Instrument Disinfectant", "EN 14348 - Mycobactericidal Test", 55000, 30, "10%"},
	{"Textile Disinfectant", "ISO 20743 - Antibacterial Activity of Textiles", 38000, 21, "5%"},
	{"Textile Disinfectant", "AATCC 100 - Antibacterial Finishes", 35000, 21, "5%"},
})

var builtinTables = map[string][]ReferenceRecord{
	TableNutraceuticals:  nutraceuticalsTable,
	TableCosmeceuticals:  cosmeceuticalsTable,
	TablePharmaceuticals: pharmaceuticalsTable,
	TableHerbalAyush:     herbalAyushTable,
	TableToxicity:        toxicityTable,
	TableDisinfectants:   disinfectantsTable,
}

// The live tables start as the built-in ones and can be replaced by an
// imported price list. Resolvers are rebuilt on every replacement.
var (
	tablesMu        sync.RWMutex
	referenceTables = builtinTables
	resolvers       = buildResolvers(builtinTables)
)

// LoadTable returns a copy of the reference table for key. Unknown keys fall
// back to the nutraceuticals table.
func LoadTable(key string) []ReferenceRecord {
	tablesMu.RLock()
	defer tablesMu.RUnlock()
	table, ok := referenceTables[key]
	if !ok {
		table = referenceTables[TableNutraceuticals]
	}
	return slices.Clone(table)
}

// BuiltinTable returns a copy of the compiled-in table for key, ignoring any
// imported price list.
func BuiltinTable(key string) []ReferenceRecord {
	table, ok := builtinTables[key]
	if !ok {
		table = nutraceuticalsTable
	}
	return slices.Clone(table)
}

// ReplaceReferenceTables swaps in the given tables. Keys missing from tables
// keep their current rows; unknown keys are ignored.
func ReplaceReferenceTables(tables map[string][]ReferenceRecord) {
	tablesMu.Lock()
	defer tablesMu.Unlock()

	next := make(map[string][]ReferenceRecord, len(referenceTables))
	for key, rows := range referenceTables {
		next[key] = rows
	}
	for key, rows := range tables {
		if _, ok := builtinTables[key]; !ok {
			continue
		}
		next[key] = slices.Clone(rows)
	}
	referenceTables = next
	resolvers = buildResolvers(next)
}

// ResetReferenceTables restores the built-in tables.
func ResetReferenceTables() {
	tablesMu.Lock()
	defer tablesMu.Unlock()
	referenceTables = builtinTables
	resolvers = buildResolvers(builtinTables)
}

// TableKeyForProductType maps a display label ("Herbal/Ayush") or a key
// ("herbalAyush") to its table key. Unknown values map to nutraceuticals.
func TableKeyForProductType(productType string) string {
	if _, ok := builtinTables[productType]; ok {
		return productType
	}
	for key, label := range ProductTypeLabels {
		if label == productType {
			return key
		}
	}
	return TableNutraceuticals
}
