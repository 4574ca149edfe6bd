package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/config"
	"sheetquote/services"
)

// HandleLineImport parses an uploaded CSV/XLSX line item sheet and returns
// the valid items with per-row errors. Nothing is stored.
// Route: POST /api/lines/import
func HandleLineImport(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(cfg.MaxUploadBytes()); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ImportLineItems(header.Filename, file)
		if err != nil {
			return ServiceError(e, "line_import", err)
		}
		if result.Errors == nil {
			result.Errors = []services.ValidationError{}
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleLineImportErrorReport downloads posted row errors as an Excel file.
// Expects JSON body: {"errors": [{"row": 2, "field": "Adet", "message": "..."}]}
// Route: POST /api/lines/import/errors
func HandleLineImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req struct {
			Errors []services.ValidationError `json:"errors"`
		}
		if err := e.BindBody(&req); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
		}

		xlsxBytes, err := services.GenerateErrorReport(req.Errors)
		if err != nil {
			log.Printf("line_import_errors: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate error report")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="ice-aktarma-hatalari.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleLineImportTemplate downloads an empty line item sheet with the
// catalog materials as a dropdown.
// Route: GET /api/lines/import/template
func HandleLineImportTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		catalog, err := services.LoadCatalog(app)
		if err != nil {
			return ServiceError(e, "line_import_template", err)
		}

		xlsxBytes, err := services.GenerateLineImportTemplate(catalog.Names())
		if err != nil {
			log.Printf("line_import_template: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="parca-listesi-sablonu.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}
