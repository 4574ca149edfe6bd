package services

import "fmt"

// Quote aggregates costed lines and applies margin and VAT.
type Quote struct {
	Lines         []LineCostResult `json:"lines"`
	TotalWeightKg float64          `json:"total_weight_kg"`
	RawCost       float64          `json:"raw_cost"`
	ProfitAmount  float64          `json:"profit_amount"`
	VATAmount     float64          `json:"vat_amount"`
	FinalPrice    float64          `json:"final_price"`
}

// Assemble costs every item independently and totals them. An empty order
// yields a zero Quote. The first invalid line aborts with its 1-based position.
func Assemble(items []LineItem, catalog Catalog, rates RateConfig) (Quote, error) {
	q := Quote{Lines: make([]LineCostResult, 0, len(items))}

	for i, item := range items {
		res, err := CostLine(item, catalog, rates)
		if err != nil {
			return Quote{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		q.Lines = append(q.Lines, res)
		q.TotalWeightKg += res.WeightKg
		q.RawCost += res.LineTotal
	}

	q.ProfitAmount = q.RawCost * rates.ProfitMarginPct / 100
	preVAT := q.RawCost + q.ProfitAmount
	if rates.VATEnabled {
		q.VATAmount = preVAT * rates.VATPct / 100
	}
	q.FinalPrice = preVAT + q.VATAmount
	if !isFinite(q.TotalWeightKg, q.FinalPrice) {
		return Quote{}, fmt.Errorf("%w: quote total overflows", ErrInvalidInput)
	}

	return q, nil
}

// FallbackLines returns the 1-based positions of lines costed with
// FallbackMaterial because their material was not in the catalog.
func (q Quote) FallbackLines() []int {
	var out []int
	for i, l := range q.Lines {
		if l.MaterialFallback {
			out = append(out, i+1)
		}
	}
	return out
}

// ItemCount is the total number of pieces across all lines.
func ItemCount(items []LineItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
