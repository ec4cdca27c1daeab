package services

// ReferenceStudiesCollection stores the editable copy of the reference tables.
const ReferenceStudiesCollection = "reference_studies"

// PriceListField describes one column in a price list spreadsheet.
type PriceListField struct {
	Key          string // record field name
	Label        string // header shown in Excel
	Description  string // shown on the Instructions sheet
	FormatRule   string // e.g. "Whole number of rupees"
	ExampleValue string
	Required     bool
	Width        float64
}

// PriceListFields returns the price list columns in sheet order.
func PriceListFields() []PriceListField {
	return []PriceListField{
		{Key: "table_key", Label: "Table", Description: "Reference table the study belongs to (select from dropdown)", FormatRule: "One of the listed tables", ExampleValue: TableNutraceuticals, Required: true, Width: 18},
		{Key: "product_type", Label: "Product Type", Description: "Product type shown to customers", ExampleValue: "Nutraceuticals", Width: 18},
		{Key: "product_form", Label: "Product Form", Description: "Accepted sample forms", ExampleValue: "Powder / Extract / Capsule", Width: 26},
		{Key: "product_solvent", Label: "Product Solvent", Description: "Accepted solvents", ExampleValue: "Water / DMSO / Ethanol", Width: 24},
		{Key: "therapeutic_area", Label: "Therapeutic Area", Description: "Therapeutic area, toxicity or disinfectant category", ExampleValue: "Anti-diabetic", Required: true, Width: 26},
		{Key: "study_name", Label: "Study Name", Description: "Study or guideline name, unique within its area", ExampleValue: "Alpha-Amylase Inhibition Assay", Required: true, Width: 40},
		{Key: "price", Label: "Price", Description: "Price per sample in rupees", FormatRule: "Whole number, 0 or more", ExampleValue: "18000", Required: true, Width: 12},
		{Key: "duration", Label: "Duration", Description: "Base turnaround in days", FormatRule: "Whole number, 1 or more", ExampleValue: "21", Required: true, Width: 12},
		{Key: "discount", Label: "Duration Buffer", Description: "Percentage added to the duration", FormatRule: "Percentage such as 5%", ExampleValue: "5%", Width: 16},
	}
}
