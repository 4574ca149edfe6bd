package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/collections"
	"sheetquote/config"
	"sheetquote/handlers"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := pocketbase.New()

	app.RootCmd.AddCommand(newQuoteCmd(app, cfg))
	app.RootCmd.AddCommand(newExtractCmd(cfg))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		prepareStore(app, cfg)
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		api := se.Router.Group("/api")

		// ── Extraction and import ────────────────────────────────
		api.POST("/extract", handlers.HandleExtract(app, cfg))
		api.POST("/lines/import", handlers.HandleLineImport(app, cfg))
		api.POST("/lines/import/errors", handlers.HandleLineImportErrorReport(app))
		api.GET("/lines/import/template", handlers.HandleLineImportTemplate(app))

		// ── Quotes ───────────────────────────────────────────────
		api.POST("/quote/calculate", handlers.HandleQuoteCalculate(app))
		api.POST("/quotes", handlers.HandleQuoteSave(app, cfg))
		api.GET("/quotes", handlers.HandleQuoteList(app))
		api.GET("/quotes/{id}", handlers.HandleQuoteView(app))
		api.GET("/quotes/{id}/export/excel", handlers.HandleQuoteExportExcel(app, cfg))
		api.GET("/quotes/{id}/export/pdf", handlers.HandleQuoteExportPDF(app, cfg))

		// ── Shop settings ────────────────────────────────────────
		// PocketBase owns /api/settings, so shop data lives under /api/shop.
		api.GET("/shop/settings", handlers.HandleSettings(app))
		api.POST("/shop/rates", handlers.HandleRatesSave(app))
		api.POST("/shop/materials", handlers.HandleMaterialSave(app))
		api.DELETE("/shop/materials/{name}", handlers.HandleMaterialDelete(app))

		// ── Customers ────────────────────────────────────────────
		api.GET("/customers", handlers.HandleCustomerList(app))
		api.POST("/customers", handlers.HandleCustomerCreate(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// prepareStore creates the collections and seeds the catalog and rates from
// config. Seeding only fills empty collections.
func prepareStore(app *pocketbase.PocketBase, cfg *config.Config) {
	collections.Setup(app)
	if err := collections.Seed(app, cfg.SeedMaterials(), cfg.RateConfig()); err != nil {
		log.Printf("Warning: seed data failed: %v", err)
	}
}
