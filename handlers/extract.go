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

// SkippedDocument is an upload whose text could not be read.
type SkippedDocument struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ExtractResponse is the body of POST /api/extract.
type ExtractResponse struct {
	Measurements []services.ExtractedMeasurement `json:"measurements"`
	Skipped      []SkippedDocument               `json:"skipped"`
}

// HandleExtract reads uploaded machine reports and returns one measurement
// per readable document. Form fields: "files" (repeatable) and "text"
// (repeatable, e.g. OCR output pasted by the operator).
// Route: POST /api/extract
func HandleExtract(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	extractor := services.NewExtractor(cfg.ExtractorConfig())

	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(cfg.MaxUploadBytes()); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		var docs []services.SourceText
		resp := ExtractResponse{Skipped: []SkippedDocument{}}

		for i, text := range e.Request.MultipartForm.Value["text"] {
			docs = append(docs, services.SourceText{Name: fmt.Sprintf("text-%d", i+1), Text: text})
		}

		for _, fh := range e.Request.MultipartForm.File["files"] {
			file, err := fh.Open()
			if err != nil {
				resp.Skipped = append(resp.Skipped, SkippedDocument{Name: fh.Filename, Error: "could not open upload"})
				continue
			}
			text, err := services.DocumentText(fh.Filename, file)
			file.Close()
			if err != nil {
				log.Printf("extract: %s: %v", fh.Filename, err)
				resp.Skipped = append(resp.Skipped, SkippedDocument{Name: fh.Filename, Error: err.Error()})
				continue
			}
			docs = append(docs, services.SourceText{Name: fh.Filename, Text: text})
		}

		if len(docs) == 0 && len(resp.Skipped) == 0 {
			return ErrorJSON(e, http.StatusBadRequest, "Please upload at least one file or text")
		}

		measurements, err := extractor.ExtractAll(e.Request.Context(), docs)
		if err != nil {
			return ServiceError(e, "extract", err)
		}
		resp.Measurements = measurements
		if resp.Measurements == nil {
			resp.Measurements = []services.ExtractedMeasurement{}
		}
		return e.JSON(http.StatusOK, resp)
	}
}
