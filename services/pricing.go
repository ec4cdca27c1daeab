// Package services holds the pricing, cart and quotation logic of the study
// storefront, plus the document exports built on top of it.
package services

// CalcItemPrice sums the resolved unit price over the full cross product of
// guideline names and therapeutic areas. A study listed under several of the
// selected areas contributes once per area; unresolved pairs contribute 0.
// Duplicate names in either list are counted once.
func CalcItemPrice(lookup Lookup, guidelines, areas []string) float64 {
	var total float64
	for _, study := range MergeGuidelines(guidelines) {
		for _, area := range MergeGuidelines(areas) {
			if rec, ok := lookup.Resolve(area, study); ok {
				total += float64(rec.Price)
			}
		}
	}
	return total
}

// UnitPrice is the price of one guideline across all selected areas, i.e. the
// guideline's share of CalcItemPrice.
func UnitPrice(lookup Lookup, guideline string, areas []string) float64 {
	return CalcItemPrice(lookup, []string{guideline}, areas)
}

// MicrobiologyMultiplier returns the microorganism and application counts,
// each defaulting to 1 when the list is empty.
func MicrobiologyMultiplier(microorganisms, applications []string) (microorganismCount, applicationCount int) {
	microorganismCount, applicationCount = len(microorganisms), len(applications)
	if microorganismCount == 0 {
		microorganismCount = 1
	}
	if applicationCount == 0 {
		applicationCount = 1
	}
	return microorganismCount, applicationCount
}

// CalcMicrobiologyItemPrice prices a disinfectant study selection: the sum of
// the studies resolved under category, times microorganism and application
// counts.
func CalcMicrobiologyItemPrice(lookup Lookup, category string, studies, microorganisms, applications []string) float64 {
	base := CalcItemPrice(lookup, studies, []string{category})
	m, a := MicrobiologyMultiplier(microorganisms, applications)
	return base * float64(m) * float64(a)
}

// CalcLineTotal is the quotation line amount: unit price times quantity.
func CalcLineTotal(unitPrice float64, qty int) float64 {
	return unitPrice * float64(qty)
}

// LineQuantity is the quotation quantity for each guideline line of item:
// the sample count, times the microbiology multiplier for microbiology items.
func LineQuantity(item CartItem) int {
	qty := item.NumSamples
	if qty < 1 {
		qty = 1
	}
	if item.StudyType == StudyTypeMicrobiology {
		m, a := MicrobiologyMultiplier(item.SelectedMicroorganism, item.SelectedApplications)
		qty *= m * a
	}
	return qty
}

// PriceCartItem recomputes item.Price from its composition. It must be called
// whenever guidelines, areas or microbiology selections change.
func PriceCartItem(item *CartItem) {
	lookup := ResolverFor(item.StudyType)
	if item.StudyType == StudyTypeMicrobiology {
		item.Price = CalcMicrobiologyItemPrice(lookup, item.Category, item.AllGuidelines(),
			item.SelectedMicroorganism, item.SelectedApplications)
		return
	}
	item.Price = CalcItemPrice(lookup, item.AllGuidelines(), item.SelectedTherapeuticAreas)
}
