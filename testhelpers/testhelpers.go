// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"math"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/collections"
	"sheetquote/services"
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

// NewSeededTestApp is NewTestApp plus the default material catalog and rates.
func NewSeededTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := NewTestApp(t)
	if err := collections.Seed(app, services.DefaultMaterials(), services.DefaultRates()); err != nil {
		t.Fatalf("failed to seed test app: %v", err)
	}
	return app
}

// CreateTestCustomer creates a customer record with the given name and returns it.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("phone", "0212 555 00 00")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestMaterial creates a material record and returns it.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, name string, price float64, currency string, density float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("unit_price", price)
	record.Set("currency", currency)
	record.Set("density", density)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// SaveTestQuote prices and stores items for customerName at the default rates.
func SaveTestQuote(t *testing.T, app *pocketbase.PocketBase, customerName string, items ...services.LineItem) *services.StoredQuote {
	t.Helper()

	catalog, err := services.LoadCatalog(app)
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	rates, err := services.LoadRates(app)
	if err != nil {
		t.Fatalf("failed to load rates: %v", err)
	}

	stored, err := services.SaveQuote(app, services.QuoteRequest{
		CustomerName: customerName,
		JobLabel:     "test job",
		Items:        items,
	}, catalog, rates, "TKL", time.Now())
	if err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}
	return stored
}

// AssertFloat fails the test when got differs from want by more than 0.01.
func AssertFloat(t *testing.T, field string, got, want float64) {
	t.Helper()

	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}
