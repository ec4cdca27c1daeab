package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// QuotationsCollection stores every generated quotation.
const QuotationsCollection = "quotations"

// ErrQuotationNotFound is returned when no stored quotation has a number.
var ErrQuotationNotFound = errors.New("quotation not found")

// GetFiscalYear returns the Indian fiscal year (April to March) containing
// t, e.g. Jan 2026 -> "25-26", May 2026 -> "26-27".
func GetFiscalYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%02d-%02d", start%100, (start+1)%100)
}

// SaveQuotationRecord persists q. Re-quoting the same number adds a new
// revision instead of overwriting the earlier one.
func SaveQuotationRecord(app core.App, q Quotation, ownerID string, emailed bool, now time.Time) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(QuotationsCollection)
	if err != nil {
		return nil, fmt.Errorf("find %s collection: %w", QuotationsCollection, err)
	}

	rec := core.NewRecord(col)
	rec.Set("number", q.Number)
	rec.Set("revision", nextQuotationRevision(app, q.Number))
	rec.Set("fiscal_year", GetFiscalYear(now))
	rec.Set("owner", ownerID)
	rec.Set("customer_name", q.Customer.Name)
	rec.Set("customer_email", q.Customer.Email)
	rec.Set("item_count", len(q.Products))
	rec.Set("sub_total", q.Summary.SubTotal)
	rec.Set("gst_amount", q.Summary.GSTAmount)
	rec.Set("grand_total", q.Summary.GrandTotal)
	rec.Set("emailed", emailed)
	rec.Set("payload", q)

	if err := app.Save(rec); err != nil {
		return nil, fmt.Errorf("save quotation %s: %w", q.Number, err)
	}
	return rec, nil
}

// FindQuotation loads the latest revision of the quotation with number.
func FindQuotation(app core.App, number string) (Quotation, error) {
	return findQuotation(app, "number = {:number}", map[string]any{"number": number}, number)
}

// FindQuotationForOwner is FindQuotation restricted to quotations saved by
// owner (a CartOwner key). Quotations of other owners are reported as not
// found, and an empty owner never matches.
func FindQuotationForOwner(app core.App, number, owner string) (Quotation, error) {
	if owner == "" {
		return Quotation{}, fmt.Errorf("%s: %w", number, ErrQuotationNotFound)
	}
	return findQuotation(app, "number = {:number} && owner = {:owner}",
		map[string]any{"number": number, "owner": owner}, number)
}

func findQuotation(app core.App, filter string, params map[string]any, number string) (Quotation, error) {
	records, err := app.FindRecordsByFilter(
		QuotationsCollection,
		filter,
		"-revision",
		1,
		0,
		params,
	)
	if err != nil || len(records) == 0 {
		return Quotation{}, fmt.Errorf("%s: %w", number, ErrQuotationNotFound)
	}

	var q Quotation
	if err := records[0].UnmarshalJSONField("payload", &q); err != nil {
		return Quotation{}, fmt.Errorf("decode quotation %s: %w", number, err)
	}
	return q, nil
}

// MarkQuotationEmailed flags the stored record as sent.
func MarkQuotationEmailed(app core.App, rec *core.Record) error {
	rec.Set("emailed", true)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("mark quotation %s emailed: %w", rec.GetString("number"), err)
	}
	return nil
}

func nextQuotationRevision(app core.App, number string) int {
	existing, err := app.FindRecordsByFilter(
		QuotationsCollection,
		"number = {:number}",
		"",
		0,
		0,
		map[string]any{"number": number},
	)
	if err != nil {
		existing = nil
	}
	return len(existing) + 1
}
