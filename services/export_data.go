package services

import (
	"fmt"
	"strings"
)

// ExportRow represents a single quote line in the export.
type ExportRow struct {
	Index        int
	Material     string
	ThicknessMM  float64
	Dimensions   string // "1000 x 2000"
	Quantity     int
	WeightKg     float64
	MaterialCost float64
	ProcessCost  float64
	LineTotal    float64
	Fallback     bool
}

// ExportData holds all data needed for export.
type ExportData struct {
	ShopName        string
	Title           string
	QuoteNumber     string
	CustomerName    string
	JobLabel        string
	CreatedDate     string
	Rows            []ExportRow
	TotalWeightKg   float64
	RawCost         float64
	ProfitMarginPct float64
	ProfitAmount    float64
	VATEnabled      bool
	VATPct          float64
	VATAmount       float64
	FinalPrice      float64
	AmountInWords   string
	Notes           []string
}

// BuildQuoteExportData flattens a stored quote into document rows.
func BuildQuoteExportData(q *StoredQuote, shopName string) ExportData {
	data := ExportData{
		ShopName:        shopName,
		Title:           "Fiyat Teklifi",
		QuoteNumber:     q.QuoteNumber,
		CustomerName:    q.Customer.Name,
		JobLabel:        q.JobLabel,
		CreatedDate:     q.Created.Format("02.01.2006"),
		Rows:            make([]ExportRow, 0, len(q.Items)),
		TotalWeightKg:   q.Quote.TotalWeightKg,
		RawCost:         q.Quote.RawCost,
		ProfitMarginPct: q.Rates.ProfitMarginPct,
		ProfitAmount:    q.Quote.ProfitAmount,
		VATEnabled:      q.Rates.VATEnabled,
		VATPct:          q.Rates.VATPct,
		VATAmount:       q.Quote.VATAmount,
		FinalPrice:      q.Quote.FinalPrice,
		AmountInWords:   AmountToWords(q.Quote.FinalPrice),
	}
	if q.Created.IsZero() {
		data.CreatedDate = ""
	}

	var fallback []string
	for i, item := range q.Items {
		row := ExportRow{
			Index:       i + 1,
			Material:    item.MaterialName,
			ThicknessMM: item.ThicknessMM,
			Dimensions:  fmt.Sprintf("%s x %s", formatQty(item.WidthMM), formatQty(item.LengthMM)),
			Quantity:    item.Quantity,
		}
		if i < len(q.Quote.Lines) {
			res := q.Quote.Lines[i]
			row.WeightKg = res.WeightKg
			row.MaterialCost = res.MaterialCost
			row.ProcessCost = res.ProcessCost
			row.LineTotal = res.LineTotal
			row.Fallback = res.MaterialFallback
		}
		if row.Fallback {
			fallback = append(fallback, fmt.Sprintf("%d", row.Index))
		}
		data.Rows = append(data.Rows, row)
	}

	if len(fallback) > 0 {
		data.Notes = append(data.Notes, fmt.Sprintf(
			"%s numaralı satırlarda malzeme katalogda bulunamadı, %s fiyatı ile hesaplandı.",
			strings.Join(fallback, ", "), FallbackMaterial.Name))
	}
	if !data.VATEnabled {
		data.Notes = append(data.Notes, "Fiyatlara KDV dahil değildir.")
	}
	return data
}
