package collections_test

import (
	"strings"
	"testing"

	"studyquote/collections"
	"studyquote/services"
	"studyquote/testhelpers"
)

func TestMigrateCartConfigNumbers_AssignsMissing(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	item := testhelpers.NewInvitroItem("legacy-1")
	item.ConfigNo = ""
	rec := testhelpers.CreateTestCartItem(t, app, "user-1", item)

	if err := collections.MigrateCartConfigNumbers(app); err != nil {
		t.Fatalf("MigrateCartConfigNumbers() error: %v", err)
	}

	updated, err := app.FindRecordById(services.CartItemsCollection, rec.Id)
	if err != nil {
		t.Fatalf("reload record: %v", err)
	}
	no := updated.GetString("config_no")
	if !strings.HasPrefix(no, "RR") || len(no) != 8 {
		t.Errorf("expected RR + 6 digits, got %q", no)
	}

	decoded, err := services.CartItemFromRecord(updated)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var payload services.CartItem
	if err := updated.UnmarshalJSONField("payload", &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.ConfigNo != no || decoded.ConfigNo != no {
		t.Errorf("payload config number %q does not match column %q", payload.ConfigNo, no)
	}
}

func TestMigrateCartConfigNumbers_KeepsExisting(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestCartItem(t, app, "user-1", testhelpers.NewInvitroItem("current-1"))

	if err := collections.MigrateCartConfigNumbers(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if err := collections.MigrateCartConfigNumbers(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	updated, _ := app.FindRecordById(services.CartItemsCollection, rec.Id)
	if got := updated.GetString("config_no"); got != "RR100200" {
		t.Errorf("expected config number to stay RR100200, got %q", got)
	}
}

func TestMigrateCartConfigNumbers_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.MigrateCartConfigNumbers(app); err != nil {
		t.Fatalf("MigrateCartConfigNumbers() on empty collection error: %v", err)
	}
}
