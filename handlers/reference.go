package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/collections"
	"studyquote/services"
)

type studyView struct {
	TherapeuticArea string `json:"therapeuticArea"`
	StudyName       string `json:"studyName"`
	Price           int    `json:"price"`
	Duration        int    `json:"duration"`
	Discount        string `json:"discount"`
	TotalDuration   int    `json:"totalDuration"`
}

func newStudyView(rec services.ReferenceRecord) studyView {
	return studyView{
		TherapeuticArea: rec.TherapeuticArea,
		StudyName:       rec.StudyName,
		Price:           rec.Price,
		Duration:        rec.Duration,
		Discount:        rec.Discount,
		TotalDuration:   services.TotalDuration(rec.Duration, rec.Discount),
	}
}

// HandleReferenceAreas lists the therapeutic areas (or categories) of a
// product type's table.
func HandleReferenceAreas() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := services.TableKeyForProductType(e.Request.PathValue("productType"))
		areas := services.ListTherapeuticAreas(key)
		if areas == nil {
			areas = []string{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"table":       key,
			"productType": services.ProductTypeLabels[key],
			"areas":       areas,
		})
	}
}

// HandleReferenceStudies lists the studies of a product type, optionally
// narrowed to one area. Studies are read from the reference_studies
// collection; the built-in tables are used when it has not been seeded.
func HandleReferenceStudies(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := services.TableKeyForProductType(e.Request.PathValue("productType"))
		area := e.Request.URL.Query().Get("area")

		records, err := loadReferenceStudies(app, key, area)
		if err != nil {
			log.Printf("reference_studies: falling back to built-in table %s: %v", key, err)
			records = filterArea(services.LoadTable(key), area)
		}

		studies := make([]studyView, 0, len(records))
		for _, rec := range records {
			studies = append(studies, newStudyView(rec))
		}
		return e.JSON(http.StatusOK, map[string]any{
			"table":   key,
			"area":    area,
			"studies": studies,
		})
	}
}

func loadReferenceStudies(app core.App, key, area string) ([]services.ReferenceRecord, error) {
	filter := "table_key = {:key}"
	params := map[string]any{"key": key}
	if area != "" {
		filter += " && therapeutic_area = {:area}"
		params["area"] = area
	}
	records, err := app.FindRecordsByFilter(collections.ReferenceStudiesCollection, filter, "therapeutic_area,study_name", 0, 0, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// An empty result is only trusted when the table itself is seeded.
		seeded, err := app.FindRecordsByFilter(collections.ReferenceStudiesCollection, "table_key = {:key}", "", 1, 0, map[string]any{"key": key})
		if err != nil || len(seeded) == 0 {
			return filterArea(services.LoadTable(key), area), nil
		}
	}

	out := make([]services.ReferenceRecord, 0, len(records))
	for _, r := range records {
		out = append(out, services.ReferenceRecordFrom(r))
	}
	return out, nil
}

func filterArea(records []services.ReferenceRecord, area string) []services.ReferenceRecord {
	if area == "" {
		return records
	}
	var out []services.ReferenceRecord
	for _, rec := range records {
		if rec.TherapeuticArea == area {
			out = append(out, rec)
		}
	}
	return out
}

// HandleReferenceOptions returns the static dropdown options of the
// configurators.
func HandleReferenceOptions() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		productTypes := make([]map[string]string, 0, len(services.ProductTypeKeys))
		for _, key := range services.ProductTypeKeys {
			productTypes = append(productTypes, map[string]string{
				"key":   key,
				"label": services.ProductTypeLabels[key],
			})
		}
		return e.JSON(http.StatusOK, map[string]any{
			"studyTypes":           services.StudyTypeOptions,
			"productTypes":         productTypes,
			"sampleForms":          services.SampleFormOptions,
			"sampleSolvents":       services.SampleSolventOptions,
			"microorganismTypes":   services.MicroorganismTypes,
			"microorganisms":       services.MicroorganismOptions,
			"applications":         services.ApplicationOptions,
			"disinfectantCategory": services.ListTherapeuticAreas(services.TableDisinfectants),
			"maxCustomTextLength":  services.MaxCustomTextLength,
		})
	}
}
