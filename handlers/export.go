package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/config"
	"sheetquote/services"
)

// buildExportData loads a stored quote and flattens it for the documents.
func buildExportData(app *pocketbase.PocketBase, cfg *config.Config, quoteID string) (services.ExportData, error) {
	stored, err := services.LoadQuote(app, quoteID)
	if err != nil {
		return services.ExportData{}, err
	}
	return services.BuildQuoteExportData(stored, cfg.Shop.Name), nil
}

// HandleQuoteExportExcel returns a handler that generates and downloads an Excel file for a quote.
// Route: GET /api/quotes/{id}/export/excel
func HandleQuoteExportExcel(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing quote ID")
		}

		data, err := buildExportData(app, cfg, quoteID)
		if err != nil {
			return ServiceError(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Teklif_%s.xlsx", sanitizeFilename(data.QuoteNumber))

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleQuoteExportPDF returns a handler that generates and downloads a PDF file for a quote.
// Route: GET /api/quotes/{id}/export/pdf
func HandleQuoteExportPDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing quote ID")
		}

		data, err := buildExportData(app, cfg, quoteID)
		if err != nil {
			return ServiceError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Teklif_%s.pdf", sanitizeFilename(data.QuoteNumber))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
