package handlers

import (
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/services"
)

// SettingsResponse is the body of GET /api/shop/settings.
type SettingsResponse struct {
	Rates      services.RateConfig `json:"rates"`
	Materials  []services.Material `json:"materials"`
	Currencies []services.Currency `json:"currencies"`
}

// HandleSettings returns the current rates and material catalog.
// Route: GET /api/shop/settings
func HandleSettings(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rates, err := services.LoadRates(app)
		if err != nil {
			return ServiceError(e, "settings", err)
		}
		catalog, err := services.LoadCatalog(app)
		if err != nil {
			return ServiceError(e, "settings", err)
		}
		return e.JSON(http.StatusOK, SettingsResponse{
			Rates:      rates,
			Materials:  catalog.Materials(),
			Currencies: services.CurrencyOptions,
		})
	}
}

// HandleRatesSave replaces the stored rate snapshot. Quotes already saved
// keep the rates they were priced with.
// Route: POST /api/shop/rates
func HandleRatesSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rates services.RateConfig
		if err := e.BindBody(&rates); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := services.SaveRates(app, rates); err != nil {
			return ServiceError(e, "rates_save", err)
		}
		return e.JSON(http.StatusOK, rates)
	}
}

// HandleMaterialSave creates or updates a catalog material by name.
// Route: POST /api/shop/materials
func HandleMaterialSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var m services.Material
		if err := e.BindBody(&m); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
		}
		if err := services.UpsertMaterial(app, m); err != nil {
			return ServiceError(e, "material_save", err)
		}
		return e.JSON(http.StatusOK, m)
	}
}

// HandleMaterialDelete removes a catalog material. Stored quotes are not
// affected; they keep the material name they were priced with.
// Route: DELETE /api/shop/materials/{name}
func HandleMaterialDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name, err := url.PathUnescape(e.Request.PathValue("name"))
		if err != nil || name == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing material name")
		}
		if err := services.DeleteMaterial(app, name); err != nil {
			return ServiceError(e, "material_delete", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
