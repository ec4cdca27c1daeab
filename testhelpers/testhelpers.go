// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"studyquote/collections"
	"studyquote/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// NewInvitroItem returns a priced Invitro cart item for the Anti-diabetic
// area with one guideline and the given id.
func NewInvitroItem(id string) services.CartItem {
	item := services.CartItem{
		ID:                       id,
		ConfigNo:                 "RR100200",
		StudyType:                services.StudyTypeInvitro,
		Category:                 "Nutraceuticals",
		SampleForm:               "Powder",
		SampleSolvent:            "Water",
		NumSamples:               1,
		SelectedGuidelines:       []string{"Alpha-Amylase Inhibition Assay"},
		SampleFormGuidelines:     []string{"Alpha-Amylase Inhibition Assay"},
		SampleSolventGuidelines:  []string{"Alpha-Amylase Inhibition Assay"},
		SelectedTherapeuticAreas: []string{"Anti-diabetic"},
		CreatedOn:                "15/01/2025",
		ValidTill:                "14/02/2025",
		Description:              "Test sample",
	}
	services.PriceCartItem(&item)
	return item
}

// CreateTestCartItem stores item in the user's remote cart and returns the record.
func CreateTestCartItem(t *testing.T, app *pocketbase.PocketBase, userID string, item services.CartItem) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(services.CartItemsCollection)
	if err != nil {
		t.Fatalf("failed to find cart_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item_id", item.ID)
	record.Set("user_id", userID)
	record.Set("status", services.CartStatusActive)
	record.Set("config_no", item.ConfigNo)
	record.Set("study_type", string(item.StudyType))
	record.Set("category", item.Category)
	record.Set("price", item.Price)
	record.Set("payload", item)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test cart item: %v", err)
	}

	return record
}

// CreateTestQuotation stores a one-item quotation with the given number and
// no owner.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, number string) *core.Record {
	t.Helper()
	return CreateTestQuotationFor(t, app, number, "")
}

// CreateTestQuotationFor stores a one-item quotation owned by owner, a
// services.CartOwner key.
func CreateTestQuotationFor(t *testing.T, app *pocketbase.PocketBase, number, owner string) *core.Record {
	t.Helper()

	item := NewInvitroItem("test-item")
	customer := services.CustomerDetails{Name: "Test Customer", Email: "customer@example.com"}
	q := services.BuildQuotation(number, []string{number}, []services.CartItem{item}, customer,
		time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))

	record, err := services.SaveQuotationRecord(app, q, owner, false, time.Now())
	if err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}
	return record
}

// CountRecords returns the number of records in a collection matching filter.
func CountRecords(t *testing.T, app *pocketbase.PocketBase, collection, filter string, params map[string]any) int {
	t.Helper()

	records, err := app.FindRecordsByFilter(collection, filter, "", 0, 0, params)
	if err != nil {
		t.Fatalf("failed to query %s: %v", collection, err)
	}
	return len(records)
}
