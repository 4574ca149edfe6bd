package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"sheetquote/config"
	"sheetquote/testhelpers"
)

func exportRequest(id, format string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+id+"/export/"+format, nil)
	req.SetPathValue("id", id)
	return req
}

func TestHandleQuoteExportExcel(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)
	cfg := config.Default()
	cfg.Shop.Name = "Usta Lazer"
	stored := testhelpers.SaveTestQuote(t, app, "Demir Makina", dkpPlate())

	rec := httptest.NewRecorder()
	if err := HandleQuoteExportExcel(app, cfg)(newTestRequestEvent(app, exportRequest(stored.ID, "excel"), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "Teklif_"+stored.QuoteNumber+".xlsx") {
		t.Errorf("Content-Disposition = %q", disposition)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	title, _ := f.GetCellValue(stored.QuoteNumber, "A1")
	if title != "Usta Lazer - Fiyat Teklifi" {
		t.Errorf("A1 = %q", title)
	}
}

func TestHandleQuoteExportPDF(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)
	stored := testhelpers.SaveTestQuote(t, app, "Demir Makina", dkpPlate())

	rec := httptest.NewRecorder()
	if err := HandleQuoteExportPDF(app, config.Default())(newTestRequestEvent(app, exportRequest(stored.ID, "pdf"), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestHandleQuoteExport_NotFound(t *testing.T) {
	app := testhelpers.NewSeededTestApp(t)
	cfg := config.Default()

	for _, format := range []string{"excel", "pdf"} {
		t.Run(format, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, exportRequest("nonexistent12345", format), rec)
			if format == "excel" {
				HandleQuoteExportExcel(app, cfg)(e)
			} else {
				HandleQuoteExportPDF(app, cfg)(e)
			}
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
		})
	}
}
