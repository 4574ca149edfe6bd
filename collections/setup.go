package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the materials, shop_settings,
// customers, quotes and quote_lines collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 80})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.SelectField{
			Name:      "currency",
			Required:  true,
			Values:    []string{"LOCAL", "USD"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "density", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_materials_name", true, "name", "")
	})

	ensureCollection(app, "shop_settings", func(c *core.Collection) {
		c.Fields.Add(&core.NumberField{Name: "fx_rate", Required: true})
		c.Fields.Add(&core.NumberField{Name: "laser_rate_per_minute"})
		c.Fields.Add(&core.NumberField{Name: "bend_rate_per_hit"})
		c.Fields.Add(&core.NumberField{Name: "weld_rate_per_hour"})
		c.Fields.Add(&core.NumberField{Name: "paint_rate_per_m2"})
		c.Fields.Add(&core.NumberField{Name: "profit_margin_pct"})
		c.Fields.Add(&core.NumberField{Name: "vat_pct"})
		c.Fields.Add(&core.BoolField{Name: "vat_enabled"})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "tax_number"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_customers_name", true, "name", "")
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "job_label"})
		c.Fields.Add(&core.NumberField{Name: "total_weight_kg"})
		c.Fields.Add(&core.NumberField{Name: "raw_cost"})
		c.Fields.Add(&core.NumberField{Name: "profit_amount"})
		c.Fields.Add(&core.NumberField{Name: "vat_amount"})
		c.Fields.Add(&core.NumberField{Name: "final_price"})
		c.Fields.Add(&core.NumberField{Name: "item_count", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "fx_rate"})
		c.Fields.Add(&core.NumberField{Name: "profit_margin_pct"})
		c.Fields.Add(&core.NumberField{Name: "vat_pct"})
		c.Fields.Add(&core.BoolField{Name: "vat_enabled"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_number", true, "quote_number", "")
	})

	ensureCollection(app, "quote_lines", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quote",
			Required:      true,
			CollectionId:  quotes.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "material_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "thickness_mm"})
		c.Fields.Add(&core.NumberField{Name: "width_mm"})
		c.Fields.Add(&core.NumberField{Name: "length_mm"})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: true, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "cut_time_minutes"})
		c.Fields.Add(&core.NumberField{Name: "bend_count", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "weld_time_minutes"})
		c.Fields.Add(&core.BoolField{Name: "painted"})
		c.Fields.Add(&core.NumberField{Name: "scrap_pct"})
		c.Fields.Add(&core.NumberField{Name: "weight_kg"})
		c.Fields.Add(&core.NumberField{Name: "material_cost"})
		c.Fields.Add(&core.NumberField{Name: "process_cost"})
		c.Fields.Add(&core.NumberField{Name: "line_total"})
		c.Fields.Add(&core.BoolField{Name: "material_fallback"})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
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
