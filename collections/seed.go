package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/services"
)

// Seed fills an empty materials collection with materials and creates the
// single shop_settings row from rates. Existing data is left alone, so it is
// safe to call on every startup.
func Seed(app *pocketbase.PocketBase, materials []services.Material, rates services.RateConfig) error {
	if err := seedMaterials(app, materials); err != nil {
		return err
	}
	return seedSettings(app, rates)
}

func seedMaterials(app *pocketbase.PocketBase, materials []services.Material) error {
	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query materials: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	created := 0
	for _, m := range materials {
		if err := services.ValidateMaterial(m); err != nil {
			log.Printf("seed: skipping material %q: %v", m.Name, err)
			continue
		}
		rec := core.NewRecord(col)
		rec.Set("name", m.Name)
		rec.Set("unit_price", m.UnitPrice)
		rec.Set("currency", string(m.Currency))
		rec.Set("density", m.Density)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: save material %q: %w", m.Name, err)
		}
		created++
	}
	log.Printf("seed: created %d materials", created)
	return nil
}

func seedSettings(app *pocketbase.PocketBase, rates services.RateConfig) error {
	col, err := app.FindCollectionByNameOrId("shop_settings")
	if err != nil {
		return fmt.Errorf("seed: could not find shop_settings collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query shop_settings: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if err := rates.Validate(); err != nil {
		log.Printf("seed: configured rates invalid, using defaults: %v", err)
		rates = services.DefaultRates()
	}
	rec := core.NewRecord(col)
	services.SetRateFields(rec, rates)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("seed: save shop_settings: %w", err)
	}
	return nil
}
