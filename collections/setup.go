package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"studyquote/services"
)

// Setup programmatically creates/ensures the cart_items, quotations and
// reference_studies collections exist.
func Setup(app core.App) {
	ensureCollection(app, services.CartItemsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "item_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "user_id", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{services.CartStatusActive, "ordered"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "config_no", Required: false})
		c.Fields.Add(&core.TextField{Name: "study_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.JSONField{Name: "payload", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_cart_items_user_item", true, "user_id, item_id", "")
	})

	ensureCollection(app, services.QuotationsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "number", Required: true})
		c.Fields.Add(&core.NumberField{Name: "revision", Required: true, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "fiscal_year", Required: false})
		c.Fields.Add(&core.TextField{Name: "owner", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_name", Required: true})
		c.Fields.Add(&core.EmailField{Name: "customer_email", Required: true})
		c.Fields.Add(&core.NumberField{Name: "item_count", Required: false, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "sub_total", Required: false})
		c.Fields.Add(&core.NumberField{Name: "gst_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "grand_total", Required: false})
		c.Fields.Add(&core.BoolField{Name: "emailed"})
		c.Fields.Add(&core.JSONField{Name: "payload", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_quotations_number", false, "number", "")
	})

	ensureCollection(app, ReferenceStudiesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "table_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "product_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "product_form", Required: false})
		c.Fields.Add(&core.TextField{Name: "product_solvent", Required: false})
		c.Fields.Add(&core.TextField{Name: "therapeutic_area", Required: true})
		c.Fields.Add(&core.TextField{Name: "study_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "duration", Required: false, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "discount", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
