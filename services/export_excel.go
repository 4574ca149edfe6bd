package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel file from the given ExportData and returns
// the file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Teklif"
	if data.QuoteNumber != "" {
		sheetName = data.QuoteNumber
	}
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]

	widths := []float64{5, 22, 10, 18, 8, 14, 16, 16, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	lineStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create line style: %w", err)
	}

	// Lines priced with the fallback material are highlighted.
	fallbackStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#FEF3C7"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create fallback style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	title := data.Title
	if data.ShopName != "" {
		title = data.ShopName + " - " + data.Title
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	subtitles := []string{
		"Teklif No: " + data.QuoteNumber,
		"Müşteri: " + data.CustomerName,
		"Tarih: " + data.CreatedDate,
	}
	if data.JobLabel != "" {
		subtitles = append(subtitles, "İş: "+data.JobLabel)
	}
	for i, s := range subtitles {
		r := fmt.Sprintf("%d", i+2)
		if err := f.MergeCell(sheetName, "A"+r, lastCol+r); err != nil {
			return nil, fmt.Errorf("merge subtitle: %w", err)
		}
		f.SetCellValue(sheetName, "A"+r, s)
		f.SetCellStyle(sheetName, "A"+r, lastCol+r, subtitleStyle)
	}

	// ── Column Headers ──────────────────────────────────────────────────

	headerRow := len(subtitles) + 3
	headers := []string{"#", "Malzeme", "Kalınlık (mm)", "En x Boy (mm)", "Adet", "Ağırlık (kg)", "Malzeme Bedeli", "İşçilik", "Satır Toplamı"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s%d", columns[i], headerRow), h)
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)

	// ── Data Rows ───────────────────────────────────────────────────────

	row := headerRow + 1
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		material := r.Material
		if r.Fallback {
			material += " *"
		}
		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(material))
		f.SetCellValue(sheetName, "C"+rowStr, r.ThicknessMM)
		f.SetCellValue(sheetName, "D"+rowStr, r.Dimensions)
		f.SetCellValue(sheetName, "E"+rowStr, r.Quantity)
		f.SetCellValue(sheetName, "F"+rowStr, RoundMoney(r.WeightKg))
		f.SetCellValue(sheetName, "G"+rowStr, FormatTRY(r.MaterialCost))
		f.SetCellValue(sheetName, "H"+rowStr, FormatTRY(r.ProcessCost))
		f.SetCellValue(sheetName, "I"+rowStr, FormatTRY(r.LineTotal))

		style := lineStyle
		if r.Fallback {
			style = fallbackStyle
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++

	type summaryLine struct {
		label string
		value string
	}
	summary := []summaryLine{
		{"Toplam Ağırlık:", FormatKg(data.TotalWeightKg)},
		{"Ham Maliyet:", FormatTRY(data.RawCost)},
		{fmt.Sprintf("Kâr (%s):", FormatPercent(data.ProfitMarginPct)), FormatTRY(data.ProfitAmount)},
	}
	if data.VATEnabled {
		summary = append(summary, summaryLine{fmt.Sprintf("KDV (%s):", FormatPercent(data.VATPct)), FormatTRY(data.VATAmount)})
	}
	summary = append(summary, summaryLine{"Genel Toplam:", FormatTRY(data.FinalPrice)})

	for _, s := range summary {
		summaryRow := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "E"+summaryRow, "H"+summaryRow); err != nil {
			return nil, fmt.Errorf("merge summary: %w", err)
		}
		f.SetCellValue(sheetName, "E"+summaryRow, s.label)
		f.SetCellStyle(sheetName, "E"+summaryRow, "H"+summaryRow, summaryLabelStyle)
		f.SetCellValue(sheetName, "I"+summaryRow, s.value)
		f.SetCellStyle(sheetName, "I"+summaryRow, "I"+summaryRow, summaryValueStyle)
		row++
	}

	if data.AmountInWords != "" {
		wordsRow := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "A"+wordsRow, lastCol+wordsRow); err != nil {
			return nil, fmt.Errorf("merge amount in words: %w", err)
		}
		f.SetCellValue(sheetName, "A"+wordsRow, data.AmountInWords)
		f.SetCellStyle(sheetName, "A"+wordsRow, lastCol+wordsRow, subtitleStyle)
		row++
	}

	// ── Notes ───────────────────────────────────────────────────────────

	if len(data.Notes) > 0 {
		row++
	}
	for _, n := range data.Notes {
		noteRow := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "A"+noteRow, lastCol+noteRow); err != nil {
			return nil, fmt.Errorf("merge note: %w", err)
		}
		f.SetCellValue(sheetName, "A"+noteRow, n)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
