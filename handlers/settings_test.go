package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"sheetquote/services"
	"sheetquote/testhelpers"
)

func TestHandleSettings(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/shop/settings", nil)
	if err := HandleSettings(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Rates != services.DefaultRates() {
		t.Errorf("rates = %+v, want defaults", resp.Rates)
	}
	if len(resp.Materials) != len(services.DefaultMaterials()) {
		t.Errorf("materials = %d, want %d", len(resp.Materials), len(services.DefaultMaterials()))
	}
	if len(resp.Currencies) != 2 {
		t.Errorf("currencies = %v", resp.Currencies)
	}
}

func TestHandleRatesSave(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)

	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"fx_rate":35,"laser_rate_per_minute":30,"profit_margin_pct":15,"vat_pct":20,"vat_enabled":false}`
		if err := HandleRatesSave(app)(newTestRequestEvent(app, postJSON("/api/shop/rates", body), rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		rates, _ := services.LoadRates(app)
		if rates.FXRate != 35 || rates.VATEnabled {
			t.Errorf("stored rates = %+v", rates)
		}
	})

	t.Run("negative margin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"fx_rate":35,"profit_margin_pct":-5}`
		HandleRatesSave(app)(newTestRequestEvent(app, postJSON("/api/shop/rates", body), rec))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		rates, _ := services.LoadRates(app)
		if rates.ProfitMarginPct != 15 {
			t.Errorf("rejected save changed rates: %+v", rates)
		}
	})
}

func TestHandleMaterialSaveAndDelete(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)

	rec := httptest.NewRecorder()
	body := `{"name":"Corten A","unit_price":1.4,"currency":"USD","density":7.85}`
	if err := HandleMaterialSave(app)(newTestRequestEvent(app, postJSON("/api/shop/materials", body), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body.String())
	}
	cat, _ := services.LoadCatalog(app)
	if _, ok := cat.Lookup("corten a"); !ok {
		t.Fatal("saved material not in catalog")
	}

	name := "Corten A"
	req := httptest.NewRequest(http.MethodDelete, "/api/shop/materials/"+url.PathEscape(name), nil)
	req.SetPathValue("name", url.PathEscape(name))
	rec = httptest.NewRecorder()
	if err := HandleMaterialDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	cat, _ = services.LoadCatalog(app)
	if _, ok := cat.Lookup(name); ok {
		t.Error("material still in catalog after delete")
	}

	rec = httptest.NewRecorder()
	HandleMaterialDelete(app)(newTestRequestEvent(app, req, rec))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestHandleMaterialSave_Invalid(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)

	rec := httptest.NewRecorder()
	body := `{"name":"","unit_price":1,"currency":"USD","density":7.85}`
	HandleMaterialSave(app)(newTestRequestEvent(app, postJSON("/api/shop/materials", body), rec))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
