package services

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GSTPercent is the goods and services tax applied to every quotation.
const GSTPercent = 18

// QuotationGuideline is one priced line of a quotation product.
type QuotationGuideline struct {
	Name         string  `json:"name"`
	Qty          int     `json:"qty"`
	UnitPrice    float64 `json:"unitPrice"`
	LineTotal    float64 `json:"lineTotal"`
	DurationDays int     `json:"durationDays"`
}

// QuotationProduct is the quotation view of one cart item.
type QuotationProduct struct {
	Number        string               `json:"number"`
	CartItemID    string               `json:"cartItemId"`
	StudyType     StudyType            `json:"studyType"`
	Title         string               `json:"title"`
	Details       []string             `json:"details"`
	Guidelines    []QuotationGuideline `json:"guidelines"`
	EstimatedDays int                  `json:"estimatedDays"`
}

// QuotationSummary holds the totals of a quotation.
type QuotationSummary struct {
	SubTotal   float64 `json:"subTotal"`
	GSTPercent float64 `json:"gstPercent"`
	GSTAmount  float64 `json:"gstAmount"`
	GrandTotal float64 `json:"grandTotal"`
}

// Quotation is the aggregate handed to PDF, email and persistence.
type Quotation struct {
	Number    string             `json:"number"`
	Date      string             `json:"date"`
	ValidTill string             `json:"validTill"`
	Customer  CustomerDetails    `json:"customer"`
	Products  []QuotationProduct `json:"products"`
	Summary   QuotationSummary   `json:"summary"`
}

// AssignQuotationNumbers returns the quotation number and one number per
// item. The base reuses the first item's config number (without a leading
// "#") and is only generated when that is empty. A single item is quoted
// under the base itself; several items get "<base>-1", "<base>-2", ...
func AssignQuotationNumbers(items []CartItem, rng *rand.Rand) (string, []string) {
	base := ""
	if len(items) > 0 {
		base = strings.TrimPrefix(strings.TrimSpace(items[0].ConfigNo), "#")
	}
	if base == "" {
		base = NewConfigNo(rng)
	}
	if len(items) <= 1 {
		return base, []string{base}
	}
	numbers := make([]string, len(items))
	for i := range items {
		numbers[i] = fmt.Sprintf("%s-%d", base, i+1)
	}
	return base, numbers
}

// BuildQuotation assembles the quotation for items in order. It is
// deterministic for a given input: numbering is decided by the caller.
func BuildQuotation(number string, itemNumbers []string, items []CartItem, customer CustomerDetails, now time.Time) Quotation {
	products := make([]QuotationProduct, 0, len(items))
	for i, item := range items {
		p := BuildQuotationProduct(item)
		if i < len(itemNumbers) {
			p.Number = itemNumbers[i]
		}
		products = append(products, p)
	}
	createdOn, validTill := NewCartItemDates(now)
	return Quotation{
		Number:    number,
		Date:      createdOn,
		ValidTill: validTill,
		Customer:  customer,
		Products:  products,
		Summary:   CalcQuotationSummary(products),
	}
}

// BuildQuotationProduct turns a cart item into detail lines and priced
// guideline lines. Unresolvable guidelines produce a zero-priced line.
func BuildQuotationProduct(item CartItem) QuotationProduct {
	lookup := ResolverFor(item.StudyType)
	qty := LineQuantity(item)

	areas := item.SelectedTherapeuticAreas
	if item.StudyType == StudyTypeMicrobiology {
		areas = []string{item.Category}
	}

	product := QuotationProduct{
		CartItemID: item.ID,
		StudyType:  item.StudyType,
		Title:      fmt.Sprintf("%s - %s", item.StudyType, item.Category),
		Details:    itemDetails(item),
	}

	for _, name := range item.AllGuidelines() {
		unit := UnitPrice(lookup, name, areas)
		days, found := guidelineDuration(lookup, name, areas)
		if found && days > product.EstimatedDays {
			product.EstimatedDays = days
		}
		if !found && item.StudyType == StudyTypeInvitro {
			days = DefaultDetailDuration
		}
		product.Guidelines = append(product.Guidelines, QuotationGuideline{
			Name:         name,
			Qty:          qty,
			UnitPrice:    unit,
			LineTotal:    CalcLineTotal(unit, qty),
			DurationDays: days,
		})
	}
	return product
}

// guidelineDuration returns the longest inflated duration of the guideline
// across areas.
func guidelineDuration(lookup Lookup, name string, areas []string) (int, bool) {
	best, found := 0, false
	for _, area := range areas {
		rec, ok := lookup.Resolve(area, name)
		if !ok {
			continue
		}
		found = true
		if d := TotalDuration(rec.Duration, rec.Discount); d > best {
			best = d
		}
	}
	return best, found
}

func itemDetails(item CartItem) []string {
	details := []string{
		"Study Type: " + string(item.StudyType),
	}
	if item.StudyType == StudyTypeMicrobiology {
		details = append(details, "Disinfectant Category: "+item.Category)
		if item.SelectedMicroorganismType != "" {
			details = append(details, "Microorganism Type: "+item.SelectedMicroorganismType)
		}
		organisms := item.SelectedMicroorganism
		if item.CustomMicroorganism != "" {
			organisms = append(append([]string{}, organisms...), ToDisplayValue(OthersOption, item.CustomMicroorganism))
		}
		if len(organisms) > 0 {
			details = append(details, "Microorganisms: "+strings.Join(organisms, ", "))
		}
		if len(item.SelectedApplications) > 0 {
			details = append(details, "Applications: "+strings.Join(item.SelectedApplications, ", "))
		}
	} else {
		details = append(details, "Product Type: "+item.Category)
		if item.SampleForm != "" {
			details = append(details, "Sample Form: "+item.SampleForm)
		}
		if item.SampleSolvent != "" {
			details = append(details, "Sample Solvent: "+item.SampleSolvent)
		}
		if len(item.SelectedTherapeuticAreas) > 0 {
			details = append(details, "Therapeutic Areas: "+strings.Join(item.SelectedTherapeuticAreas, ", "))
		}
	}
	details = append(details, fmt.Sprintf("No. of Samples: %d", max(item.NumSamples, 1)))
	if item.Description != "" {
		details = append(details, "Sample Description: "+item.Description)
	}
	return details
}

// CalcQuotationSummary sums qty x unit price over every guideline line of
// every product and applies GST. Single-item and checkout quotations share
// this loop.
func CalcQuotationSummary(products []QuotationProduct) QuotationSummary {
	sub := decimal.Zero
	for _, p := range products {
		for _, g := range p.Guidelines {
			line := decimal.NewFromFloat(g.UnitPrice).Mul(decimal.NewFromInt(int64(g.Qty)))
			sub = sub.Add(line)
		}
	}
	gst := sub.Mul(decimal.NewFromInt(GSTPercent)).Div(decimal.NewFromInt(100)).Round(2)
	return QuotationSummary{
		SubTotal:   sub.InexactFloat64(),
		GSTPercent: GSTPercent,
		GSTAmount:  gst.InexactFloat64(),
		GrandTotal: sub.Add(gst).InexactFloat64(),
	}
}

// QuotationFilename is the download name of a quotation PDF.
func QuotationFilename(number string) string {
	return fmt.Sprintf("Quotation-%s.pdf", number)
}
