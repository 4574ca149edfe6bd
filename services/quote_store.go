package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ErrQuoteNotFound is returned when a stored quote id does not exist.
var ErrQuoteNotFound = errors.New("quote not found")

// QuoteRequest is what an operator submits to price and store a quote.
type QuoteRequest struct {
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	JobLabel     string     `json:"job_label"`
	Items        []LineItem `json:"items"`
}

// StoredQuote is a persisted quote with its inputs and results.
type StoredQuote struct {
	ID          string     `json:"id"`
	QuoteNumber string     `json:"quote_number"`
	Customer    Customer   `json:"customer"`
	JobLabel    string     `json:"job_label"`
	Created     time.Time  `json:"created"`
	Rates       RateConfig `json:"rates"`
	Items       []LineItem `json:"items"`
	Quote       Quote      `json:"quote"`
}

// HistoryEntry is the flat historical record of one finalized quote.
type HistoryEntry struct {
	ID            string    `json:"id"`
	QuoteNumber   string    `json:"quote_number"`
	Timestamp     time.Time `json:"timestamp"`
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	JobLabel      string    `json:"job_label"`
	FinalPrice    float64   `json:"final_price"`
	ItemCount     int       `json:"item_count"`
	TotalWeightKg float64   `json:"total_weight_kg"`
}

// SaveQuote prices req against the given snapshots and stores the quote and
// its lines in one transaction. Stored amounts are rounded to 2 decimals.
func SaveQuote(app core.App, req QuoteRequest, catalog Catalog, rates RateConfig, prefix string, now time.Time) (*StoredQuote, error) {
	quote, err := Assemble(req.Items, catalog, rates)
	if err != nil {
		return nil, err
	}

	stored := &StoredQuote{
		JobLabel: req.JobLabel,
		Rates:    rates,
		Items:    req.Items,
		Quote:    quote,
	}

	err = app.RunInTransaction(func(txApp core.App) error {
		customer, err := ResolveCustomer(txApp, req.CustomerID, req.CustomerName)
		if err != nil {
			return err
		}
		stored.Customer = customer

		number, err := GenerateQuoteNumber(txApp, prefix, now)
		if err != nil {
			return err
		}
		stored.QuoteNumber = number

		quotesCol, err := txApp.FindCollectionByNameOrId("quotes")
		if err != nil {
			return fmt.Errorf("find quotes collection: %w", err)
		}
		linesCol, err := txApp.FindCollectionByNameOrId("quote_lines")
		if err != nil {
			return fmt.Errorf("find quote_lines collection: %w", err)
		}

		qRec := core.NewRecord(quotesCol)
		qRec.Set("quote_number", number)
		qRec.Set("customer", customer.ID)
		qRec.Set("job_label", req.JobLabel)
		qRec.Set("total_weight_kg", RoundMoney(quote.TotalWeightKg))
		qRec.Set("raw_cost", RoundMoney(quote.RawCost))
		qRec.Set("profit_amount", RoundMoney(quote.ProfitAmount))
		qRec.Set("vat_amount", RoundMoney(quote.VATAmount))
		qRec.Set("final_price", RoundMoney(quote.FinalPrice))
		qRec.Set("item_count", ItemCount(req.Items))
		qRec.Set("fx_rate", rates.FXRate)
		qRec.Set("profit_margin_pct", rates.ProfitMarginPct)
		qRec.Set("vat_pct", rates.VATPct)
		qRec.Set("vat_enabled", rates.VATEnabled)
		if err := txApp.Save(qRec); err != nil {
			return fmt.Errorf("save quote: %w", err)
		}

		for i, item := range req.Items {
			res := quote.Lines[i]
			lRec := core.NewRecord(linesCol)
			lRec.Set("quote", qRec.Id)
			lRec.Set("sort_order", i+1)
			setLineItemFields(lRec, item)
			lRec.Set("weight_kg", RoundMoney(res.WeightKg))
			lRec.Set("material_cost", RoundMoney(res.MaterialCost))
			lRec.Set("process_cost", RoundMoney(res.ProcessCost))
			lRec.Set("line_total", RoundMoney(res.LineTotal))
			lRec.Set("material_fallback", res.MaterialFallback)
			if err := txApp.Save(lRec); err != nil {
				return fmt.Errorf("save quote line %d: %w", i+1, err)
			}
		}

		stored.ID = qRec.Id
		stored.Created = qRec.GetDateTime("created").Time()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func setLineItemFields(rec *core.Record, item LineItem) {
	rec.Set("material_name", item.MaterialName)
	rec.Set("thickness_mm", item.ThicknessMM)
	rec.Set("width_mm", item.WidthMM)
	rec.Set("length_mm", item.LengthMM)
	rec.Set("quantity", item.Quantity)
	rec.Set("cut_time_minutes", item.CutTimeMinutes)
	rec.Set("bend_count", item.BendCount)
	rec.Set("weld_time_minutes", item.WeldTimeMinutes)
	rec.Set("painted", item.Painted)
	rec.Set("scrap_pct", item.ScrapPct)
}

func lineItemFromRecord(rec *core.Record) LineItem {
	return LineItem{
		MaterialName:    rec.GetString("material_name"),
		ThicknessMM:     rec.GetFloat("thickness_mm"),
		WidthMM:         rec.GetFloat("width_mm"),
		LengthMM:        rec.GetFloat("length_mm"),
		Quantity:        rec.GetInt("quantity"),
		CutTimeMinutes:  rec.GetFloat("cut_time_minutes"),
		BendCount:       rec.GetInt("bend_count"),
		WeldTimeMinutes: rec.GetFloat("weld_time_minutes"),
		Painted:         rec.GetBool("painted"),
		ScrapPct:        rec.GetFloat("scrap_pct"),
	}
}

// LoadQuote reads a stored quote with its lines in sort order. The results
// are the stored (rounded) values, not a recomputation against today's rates.
func LoadQuote(app core.App, id string) (*StoredQuote, error) {
	qRec, err := app.FindRecordById("quotes", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
		}
		return nil, fmt.Errorf("find quote %s: %w", id, err)
	}

	stored := &StoredQuote{
		ID:          qRec.Id,
		QuoteNumber: qRec.GetString("quote_number"),
		JobLabel:    qRec.GetString("job_label"),
		Created:     qRec.GetDateTime("created").Time(),
		Rates: RateConfig{
			FXRate:          qRec.GetFloat("fx_rate"),
			ProfitMarginPct: qRec.GetFloat("profit_margin_pct"),
			VATPct:          qRec.GetFloat("vat_pct"),
			VATEnabled:      qRec.GetBool("vat_enabled"),
		},
		Quote: Quote{
			TotalWeightKg: qRec.GetFloat("total_weight_kg"),
			RawCost:       qRec.GetFloat("raw_cost"),
			ProfitAmount:  qRec.GetFloat("profit_amount"),
			VATAmount:     qRec.GetFloat("vat_amount"),
			FinalPrice:    qRec.GetFloat("final_price"),
		},
	}

	if cRec, err := app.FindRecordById("customers", qRec.GetString("customer")); err == nil {
		stored.Customer = customerFromRecord(cRec)
	} else {
		stored.Customer = Customer{ID: qRec.GetString("customer")}
	}

	lines, err := app.FindRecordsByFilter("quote_lines", "quote = {:quoteId}", "sort_order", 0, 0,
		map[string]any{"quoteId": id})
	if err != nil {
		return nil, fmt.Errorf("load lines of quote %s: %w", id, err)
	}

	stored.Items = make([]LineItem, 0, len(lines))
	stored.Quote.Lines = make([]LineCostResult, 0, len(lines))
	for _, l := range lines {
		stored.Items = append(stored.Items, lineItemFromRecord(l))
		stored.Quote.Lines = append(stored.Quote.Lines, LineCostResult{
			MaterialName:     l.GetString("material_name"),
			MaterialFallback: l.GetBool("material_fallback"),
			WeightKg:         l.GetFloat("weight_kg"),
			MaterialCost:     l.GetFloat("material_cost"),
			ProcessCost:      l.GetFloat("process_cost"),
			LineTotal:        l.GetFloat("line_total"),
		})
	}
	return stored, nil
}

// ListQuoteHistory returns the newest quotes first, optionally for one
// customer. limit <= 0 means no limit.
func ListQuoteHistory(app core.App, customerID string, limit int) ([]HistoryEntry, error) {
	filter := "id != ''"
	params := map[string]any{}
	if customerID != "" {
		filter = "customer = {:customerId}"
		params["customerId"] = customerID
	}
	if limit < 0 {
		limit = 0
	}

	records, err := app.FindRecordsByFilter("quotes", filter, "-created,-quote_number", limit, 0, params)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	names := make(map[string]string)
	out := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		cid := r.GetString("customer")
		name, ok := names[cid]
		if !ok {
			if cRec, err := app.FindRecordById("customers", cid); err == nil {
				name = cRec.GetString("name")
			}
			names[cid] = name
		}
		out = append(out, HistoryEntry{
			ID:            r.Id,
			QuoteNumber:   r.GetString("quote_number"),
			Timestamp:     r.GetDateTime("created").Time(),
			CustomerID:    cid,
			CustomerName:  name,
			JobLabel:      r.GetString("job_label"),
			FinalPrice:    r.GetFloat("final_price"),
			ItemCount:     r.GetInt("item_count"),
			TotalWeightKg: r.GetFloat("total_weight_kg"),
		})
	}
	return out, nil
}
