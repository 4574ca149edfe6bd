package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/xuri/excelize/v2"

	"sheetquote/config"
	"sheetquote/services"
	"sheetquote/testhelpers"
)

func TestHandleLineImport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Malzeme;Kalınlık;En;Boy;Adet\nDKP;2;1000;2000;3\nST37;abc;500;500;1\n"
	req := multipartRequest(t, "/api/lines/import", formPart{field: "file", filename: "liste.csv", content: []byte(csv)})
	rec := httptest.NewRecorder()

	if err := HandleLineImport(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res services.LineImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.ValidRows != 1 || res.ErrorRows != 1 {
		t.Errorf("valid=%d errors=%d, want 1/1", res.ValidRows, res.ErrorRows)
	}
	if res.Items[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", res.Items[0].Quantity)
	}
	if res.Errors[0].Row != 3 || res.Errors[0].Field != "Kalınlık" {
		t.Errorf("unexpected error entry: %+v", res.Errors[0])
	}
}

func TestHandleLineImport_BadUploads(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Rejected uploads are the client's problem and stay out of the log.
	var logged bytes.Buffer
	log.SetOutput(&logged)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	tests := []struct {
		name string
		part formPart
	}{
		{"no file field", formPart{field: "other", content: []byte("x")}},
		{"unsupported format", formPart{field: "file", filename: "liste.pdf", content: []byte("%PDF-1.4")}},
		{"missing column", formPart{field: "file", filename: "liste.csv", content: []byte("Malzeme,En\nDKP,1\n")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := multipartRequest(t, "/api/lines/import", tt.part)
			if err := HandleLineImport(app, config.Default())(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
			}
		})
	}
	if logged.Len() != 0 {
		t.Errorf("expected nothing logged, got %q", logged.String())
	}
}

func TestHandleLineImportErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := `{"errors":[{"row":4,"field":"Adet","message":"must be at least 1"}]}`
	rec := httptest.NewRecorder()
	if err := HandleLineImportErrorReport(app)(newTestRequestEvent(app, postJSON("/api/lines/import/errors", body), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Hatalar", "B2"); v != "Adet" {
		t.Errorf("B2 = %q, want Adet", v)
	}
}

func TestHandleLineImportTemplate(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/lines/import/template", nil)
	if err := HandleLineImportTemplate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Malzemeler")
	if len(rows) != len(services.DefaultMaterials()) {
		t.Errorf("material list has %d rows, want %d", len(rows), len(services.DefaultMaterials()))
	}
}
