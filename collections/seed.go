package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

// ReferenceStudiesCollection mirrors the static reference tables so they can
// be browsed and filtered through the API.
const ReferenceStudiesCollection = services.ReferenceStudiesCollection

// SeedReferenceStudies copies every reference table into reference_studies.
// It does nothing when the collection already has records.
func SeedReferenceStudies(app core.App) error {
	col, err := app.FindCollectionByNameOrId(ReferenceStudiesCollection)
	if err != nil {
		return fmt.Errorf("seed: could not find %s collection: %w", ReferenceStudiesCollection, err)
	}
	total, err := app.CountRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not count reference studies: %w", err)
	}
	if total > 0 {
		return nil
	}

	log.Println("seed: reference_studies collection is empty – inserting reference tables …")

	inserted := 0
	err = app.RunInTransaction(func(txApp core.App) error {
		for _, key := range services.AllTableKeys {
			for _, rec := range services.BuiltinTable(key) {
				r := core.NewRecord(col)
				r.Set("table_key", key)
				r.Set("product_type", rec.ProductType)
				r.Set("product_form", rec.ProductForm)
				r.Set("product_solvent", rec.ProductSolvent)
				r.Set("therapeutic_area", rec.TherapeuticArea)
				r.Set("study_name", rec.StudyName)
				r.Set("price", rec.Price)
				r.Set("duration", rec.Duration)
				r.Set("discount", rec.Discount)
				if err := txApp.Save(r); err != nil {
					return fmt.Errorf("seed: %s / %s: %w", rec.TherapeuticArea, rec.StudyName, err)
				}
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("seed: inserted %d reference studies", inserted)
	return nil
}
