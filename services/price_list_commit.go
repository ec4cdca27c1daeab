package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// ImportResult holds the outcome of a price list import.
type ImportResult struct {
	TotalRows  int        `json:"total_rows"`
	Imported   int        `json:"imported"`
	Replaced   int        `json:"replaced"`
	Tables     []string   `json:"tables"`
	Errors     []RowError `json:"errors,omitempty"`
	RolledBack bool       `json:"rolled_back"`
}

// CommitPriceListImport re-validates parsedRows and replaces every study of
// the tables they mention in a single transaction, then reloads the live
// reference tables. Either every row lands or none does.
func CommitPriceListImport(app core.App, parsedRows []map[string]string) (*ImportResult, error) {
	validation := validatePriceListRows(parsedRows)
	if !validation.OK() {
		return &ImportResult{
			TotalRows:  len(parsedRows),
			Errors:     validation.Errors,
			RolledBack: true,
		}, nil
	}

	col, err := app.FindCollectionByNameOrId(ReferenceStudiesCollection)
	if err != nil {
		return nil, fmt.Errorf("%s collection not found: %w", ReferenceStudiesCollection, err)
	}

	tables := PriceListRecords(parsedRows)
	result := &ImportResult{TotalRows: len(parsedRows), Tables: validation.Tables}

	err = app.RunInTransaction(func(txApp core.App) error {
		for _, key := range validation.Tables {
			existing, err := txApp.FindRecordsByFilter(col, "table_key = {:key}", "", 0, 0, map[string]any{"key": key})
			if err != nil {
				return fmt.Errorf("load %s: %w", key, err)
			}
			for _, rec := range existing {
				if err := txApp.Delete(rec); err != nil {
					return fmt.Errorf("delete %s study %s: %w", key, rec.Id, err)
				}
			}
			result.Replaced += len(existing)

			for _, ref := range tables[key] {
				record := core.NewRecord(col)
				fillReferenceRecord(record, key, ref)
				if err := txApp.Save(record); err != nil {
					result.Errors = append(result.Errors, RowError{
						Field:   "Study Name",
						Message: fmt.Sprintf("Failed to save %s / %s: %s", ref.TherapeuticArea, ref.StudyName, err.Error()),
					})
					return fmt.Errorf("save %s study %s: %w", key, ref.StudyName, err)
				}
				result.Imported++
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("price_list_import: rolled back: %v", err)
		result.Imported = 0
		result.Replaced = 0
		result.RolledBack = true
		return result, nil
	}

	if _, err := ReloadReferenceTables(app); err != nil {
		return result, fmt.Errorf("reload reference tables: %w", err)
	}
	return result, nil
}

// ReloadReferenceTables makes the stored price list the live one. Tables
// with no stored rows keep their current rows. It returns the number of
// studies loaded.
func ReloadReferenceTables(app core.App) (int, error) {
	var records []*core.Record
	err := app.RecordQuery(ReferenceStudiesCollection).OrderBy("rowid ASC").All(&records)
	if err != nil {
		return 0, fmt.Errorf("load reference studies: %w", err)
	}

	tables := make(map[string][]ReferenceRecord)
	for _, r := range records {
		key := r.GetString("table_key")
		tables[key] = append(tables[key], ReferenceRecordFrom(r))
	}
	ReplaceReferenceTables(tables)
	return len(records), nil
}

// ReferenceRecordFrom reads a reference_studies record.
func ReferenceRecordFrom(r *core.Record) ReferenceRecord {
	return ReferenceRecord{
		ProductType:     r.GetString("product_type"),
		ProductForm:     r.GetString("product_form"),
		ProductSolvent:  r.GetString("product_solvent"),
		TherapeuticArea: r.GetString("therapeutic_area"),
		StudyName:       r.GetString("study_name"),
		Price:           r.GetInt("price"),
		Duration:        r.GetInt("duration"),
		Discount:        r.GetString("discount"),
	}
}

func fillReferenceRecord(record *core.Record, key string, ref ReferenceRecord) {
	record.Set("table_key", key)
	record.Set("product_type", ref.ProductType)
	record.Set("product_form", ref.ProductForm)
	record.Set("product_solvent", ref.ProductSolvent)
	record.Set("therapeutic_area", ref.TherapeuticArea)
	record.Set("study_name", ref.StudyName)
	record.Set("price", ref.Price)
	record.Set("duration", ref.Duration)
	record.Set("discount", ref.Discount)
}
