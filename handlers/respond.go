package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"sheetquote/services"
)

// ErrorJSON writes {"error": message} with the given status. Expected
// failures are answered this way instead of being returned to the router.
func ErrorJSON(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]string{"error": message})
}

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrUnsupportedDocument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrQuoteNotFound),
		errors.Is(err, services.ErrMaterialNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ServiceError answers err with its mapped status. Internal errors are logged
// under component and hidden from the client.
func ServiceError(e *core.RequestEvent, component string, err error) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", component, err)
		return ErrorJSON(e, status, "internal error")
	}
	return ErrorJSON(e, status, err.Error())
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
