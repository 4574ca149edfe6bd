package collections_test

import (
	"testing"

	"sheetquote/collections"
	"sheetquote/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"materials",
	"shop_settings",
	"customers",
	"quotes",
	"quote_lines",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_Fields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		collection string
		fields     []string
	}{
		{"materials", []string{"name", "unit_price", "currency", "density", "updated"}},
		{"shop_settings", []string{"fx_rate", "laser_rate_per_minute", "bend_rate_per_hit", "weld_rate_per_hour", "paint_rate_per_m2", "profit_margin_pct", "vat_pct", "vat_enabled"}},
		{"customers", []string{"name", "tax_number", "phone", "email", "notes", "created"}},
		{"quotes", []string{"quote_number", "customer", "job_label", "total_weight_kg", "raw_cost", "profit_amount", "vat_amount", "final_price", "item_count", "fx_rate", "created"}},
		{"quote_lines", []string{"quote", "sort_order", "material_name", "thickness_mm", "width_mm", "length_mm", "quantity", "cut_time_minutes", "bend_count", "weld_time_minutes", "painted", "scrap_pct", "weight_kg", "material_cost", "process_cost", "line_total", "material_fallback"}},
	}
	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			col, err := app.FindCollectionByNameOrId(tt.collection)
			if err != nil {
				t.Fatalf("collection not found: %v", err)
			}
			for _, f := range tt.fields {
				if col.Fields.GetByName(f) == nil {
					t.Errorf("%s: missing field %q", tt.collection, f)
				}
			}
		})
	}
}

func TestSetup_MaterialCurrencyValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("materials")

	sf, ok := col.Fields.GetByName("currency").(*core.SelectField)
	if !ok {
		t.Fatal("currency is not a SelectField")
	}
	if len(sf.Values) != 2 || sf.Values[0] != "LOCAL" || sf.Values[1] != "USD" {
		t.Errorf("currency values = %v", sf.Values)
	}
}

func TestSetup_QuoteLinesCascade(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quotes, _ := app.FindCollectionByNameOrId("quotes")
	lines, _ := app.FindCollectionByNameOrId("quote_lines")

	rf, ok := lines.Fields.GetByName("quote").(*core.RelationField)
	if !ok {
		t.Fatal("quote_lines.quote is not a RelationField")
	}
	if !rf.CascadeDelete {
		t.Error("quote_lines.quote: expected CascadeDelete=true")
	}
	if rf.CollectionId != quotes.Id {
		t.Errorf("quote_lines.quote points to %q, want %q", rf.CollectionId, quotes.Id)
	}
}

func TestSetup_QuoteNumberUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Alfa")
	col, _ := app.FindCollectionByNameOrId("quotes")

	save := func() error {
		rec := core.NewRecord(col)
		rec.Set("quote_number", "TKL-2026-0001")
		rec.Set("customer", customer.Id)
		return app.Save(rec)
	}
	if err := save(); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := save(); err == nil {
		t.Error("expected duplicate quote_number to be rejected")
	}
}
