package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"studyquote/collections"
	"studyquote/services"
	"studyquote/testhelpers"
)

func TestHandleReferenceAreas(t *testing.T) {
	tests := []struct {
		name        string
		productType string
		wantTable   string
	}{
		{"by key", "cosmeceuticals", services.TableCosmeceuticals},
		{"by label", "Herbal/Ayush", services.TableHerbalAyush},
		{"unknown falls back", "plastics", services.TableNutraceuticals},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/reference/x/areas", nil)
			req.SetPathValue("productType", tt.productType)
			if err := HandleReferenceAreas()(newTestRequestEvent(nil, req, rec)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var body struct {
				Table string   `json:"table"`
				Areas []string `json:"areas"`
			}
			decodeBody(t, rec, &body)
			if body.Table != tt.wantTable {
				t.Errorf("expected table %q, got %q", tt.wantTable, body.Table)
			}
			want := services.ListTherapeuticAreas(tt.wantTable)
			if len(body.Areas) != len(want) {
				t.Errorf("expected %d areas, got %d", len(want), len(body.Areas))
			}
		})
	}
}

func TestHandleReferenceStudies(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.SeedReferenceStudies(app); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	tests := []struct {
		name      string
		area      string
		wantCount int
	}{
		{"whole table", "", len(services.LoadTable(services.TableNutraceuticals))},
		{"one area", "Anti-diabetic", len(filterArea(services.LoadTable(services.TableNutraceuticals), "Anti-diabetic"))},
		{"unknown area", "Nope", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/reference/nutraceuticals/studies", nil)
			if tt.area != "" {
				q := req.URL.Query()
				q.Set("area", tt.area)
				req.URL.RawQuery = q.Encode()
			}
			req.SetPathValue("productType", services.TableNutraceuticals)
			if err := HandleReferenceStudies(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var body struct {
				Studies []studyView `json:"studies"`
			}
			decodeBody(t, rec, &body)
			if len(body.Studies) != tt.wantCount {
				t.Fatalf("expected %d studies, got %d", tt.wantCount, len(body.Studies))
			}
			for _, s := range body.Studies {
				if s.TotalDuration != services.TotalDuration(s.Duration, s.Discount) {
					t.Errorf("%s: total duration %d does not match %d/%s", s.StudyName, s.TotalDuration, s.Duration, s.Discount)
				}
			}
		})
	}
}

func TestHandleReferenceStudies_UnseededFallsBack(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reference/toxicity/studies", nil)
	req.SetPathValue("productType", services.TableToxicity)
	if err := HandleReferenceStudies(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body struct {
		Studies []studyView `json:"studies"`
	}
	decodeBody(t, rec, &body)
	if want := len(services.LoadTable(services.TableToxicity)); len(body.Studies) != want {
		t.Errorf("expected %d built-in studies, got %d", want, len(body.Studies))
	}
}

func TestHandleReferenceOptions(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/reference/options", nil)
	if err := HandleReferenceOptions()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body struct {
		StudyTypes   []string            `json:"studyTypes"`
		ProductTypes []map[string]string `json:"productTypes"`
		SampleForms  []string            `json:"sampleForms"`
		MaxCustom    int                 `json:"maxCustomTextLength"`
	}
	decodeBody(t, rec, &body)
	if len(body.StudyTypes) != 3 {
		t.Errorf("expected 3 study types, got %v", body.StudyTypes)
	}
	if len(body.ProductTypes) != len(services.ProductTypeKeys) {
		t.Errorf("expected %d product types, got %d", len(services.ProductTypeKeys), len(body.ProductTypes))
	}
	if last := body.SampleForms[len(body.SampleForms)-1]; last != services.OthersOption {
		t.Errorf("expected Others to be last, got %q", last)
	}
	if body.MaxCustom != services.MaxCustomTextLength {
		t.Errorf("expected %d, got %d", services.MaxCustomTextLength, body.MaxCustom)
	}
}
