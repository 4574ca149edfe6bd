package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/config"
	"sheetquote/services"
)

// CalculateRequest is the body of POST /api/quote/calculate. Rates, when
// given, replace the stored rates for this calculation only.
type CalculateRequest struct {
	Items []services.LineItem  `json:"items"`
	Rates *services.RateConfig `json:"rates"`
}

// CalculateResponse carries the quote plus the lines priced with the
// fallback material, so the client can flag them.
type CalculateResponse struct {
	Quote         services.Quote `json:"quote"`
	FallbackLines []int          `json:"fallback_lines"`
	ItemCount     int            `json:"item_count"`
}

// HandleQuoteCalculate prices items against the stored catalog and rates
// without saving anything.
// Route: POST /api/quote/calculate
func HandleQuoteCalculate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req CalculateRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
		}

		catalog, err := services.LoadCatalog(app)
		if err != nil {
			return ServiceError(e, "quote_calculate", err)
		}

		var rates services.RateConfig
		if req.Rates != nil {
			rates = *req.Rates
			if err := rates.Validate(); err != nil {
				return ServiceError(e, "quote_calculate", err)
			}
		} else if rates, err = services.LoadRates(app); err != nil {
			return ServiceError(e, "quote_calculate", err)
		}

		quote, err := services.Assemble(req.Items, catalog, rates)
		if err != nil {
			return ServiceError(e, "quote_calculate", err)
		}

		fallback := quote.FallbackLines()
		if fallback == nil {
			fallback = []int{}
		}
		return e.JSON(http.StatusOK, CalculateResponse{
			Quote:         quote,
			FallbackLines: fallback,
			ItemCount:     services.ItemCount(req.Items),
		})
	}
}

// HandleQuoteSave prices and stores a quote using the current stored rates.
// Route: POST /api/quotes
func HandleQuoteSave(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.QuoteRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
		}
		if len(req.Items) == 0 {
			return ErrorJSON(e, http.StatusBadRequest, "A quote needs at least one line item")
		}

		catalog, err := services.LoadCatalog(app)
		if err != nil {
			return ServiceError(e, "quote_save", err)
		}
		rates, err := services.LoadRates(app)
		if err != nil {
			return ServiceError(e, "quote_save", err)
		}

		stored, err := services.SaveQuote(app, req, catalog, rates, cfg.Shop.QuotePrefix, time.Now())
		if err != nil {
			return ServiceError(e, "quote_save", err)
		}
		return e.JSON(http.StatusCreated, stored)
	}
}

// HandleQuoteList returns the quote history, newest first.
// Query: customer (id), limit.
// Route: GET /api/quotes
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		limit := 0
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return ErrorJSON(e, http.StatusBadRequest, "limit must be a non-negative integer")
			}
			limit = n
		}

		history, err := services.ListQuoteHistory(app, q.Get("customer"), limit)
		if err != nil {
			return ServiceError(e, "quote_list", err)
		}
		return e.JSON(http.StatusOK, history)
	}
}

// HandleQuoteView returns one stored quote with its lines.
// Route: GET /api/quotes/{id}
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing quote ID")
		}

		stored, err := services.LoadQuote(app, id)
		if err != nil {
			return ServiceError(e, "quote_view", err)
		}
		return e.JSON(http.StatusOK, stored)
	}
}
