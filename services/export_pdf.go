package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// pdfText maps the Turkish letters missing from the built-in PDF fonts'
// code page (cp1252) to their closest Latin form.
var pdfText = strings.NewReplacer(
	"ş", "s", "Ş", "S",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
)

// formatPDFMoney is FormatTRY without the lira sign, which the built-in
// fonts cannot render.
func formatPDFMoney(amount float64) string {
	amount = RoundMoney(amount)
	if amount < 0 {
		return "-" + humanize.FormatFloat(turkishNumber, -amount) + " TL"
	}
	return humanize.FormatFloat(turkishNumber, amount) + " TL"
}

// GeneratePDF creates a quote PDF from export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Sayfa {current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for _, r := range data.Rows {
		addTableRow(m, r)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the shop name, quote number, customer and date.
func addHeader(m core.Maroto, data ExportData) {
	grey := &props.Color{Red: 80, Green: 80, Blue: 80}

	if data.ShopName != "" {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(pdfText.Replace(data.ShopName), props.Text{
						Size:  11,
						Style: fontstyle.Bold,
						Align: align.Left,
						Color: grey,
					}),
				),
			),
		)
	}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(pdfText.Replace(data.Title), props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(
				text.New(pdfText.Replace("Teklif No: "+data.QuoteNumber), props.Text{
					Size:  9,
					Align: align.Left,
					Color: grey,
				}),
			),
			col.New(6).Add(
				text.New("Tarih: "+data.CreatedDate, props.Text{
					Size:  9,
					Align: align.Right,
					Color: grey,
				}),
			),
		),
		row.New(6).Add(
			col.New(6).Add(
				text.New(pdfText.Replace("Müşteri: "+data.CustomerName), props.Text{
					Size:  9,
					Align: align.Left,
					Color: grey,
				}),
			),
			col.New(6).Add(
				text.New(pdfText.Replace(data.JobLabel), props.Text{
					Size:  9,
					Align: align.Right,
					Color: grey,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the line table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	labels := []struct {
		size  int
		label string
		left  bool
	}{
		{1, "#", false},
		{3, "Malzeme", true},
		{2, "En x Boy (mm)", false},
		{1, "Adet", false},
		{2, "Agirlik (kg)", false},
		{3, "Satir Toplami", false},
	}
	cols := make([]core.Col, 0, len(labels))
	for _, l := range labels {
		style := headerText
		if l.left {
			style = headerTextLeft
		}
		cols = append(cols, col.New(l.size).Add(text.New(l.label, style)).WithStyle(&headerCell))
	}
	m.AddRows(row.New(8).Add(cols...))
}

// addTableRow adds a single quote line. Fallback-priced lines get a tinted
// background and an asterisk after the material.
func addTableRow(m core.Maroto, r ExportRow) {
	baseText := props.Text{
		Size:  8,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	material := fmt.Sprintf("%s %s mm", r.Material, formatQty(r.ThicknessMM))
	if r.Fallback {
		material += " *"
	}

	colIndex := col.New(1).Add(text.New(fmt.Sprintf("%d", r.Index), baseText))
	colMaterial := col.New(3).Add(text.New(pdfText.Replace(material), leftText))
	colDims := col.New(2).Add(text.New(r.Dimensions, baseText))
	colQty := col.New(1).Add(text.New(fmt.Sprintf("%d", r.Quantity), rightText))
	colWeight := col.New(2).Add(text.New(humanize.FormatFloat(turkishNumber, RoundMoney(r.WeightKg)), rightText))
	colTotal := col.New(3).Add(text.New(formatPDFMoney(r.LineTotal), rightText))

	if r.Fallback {
		cellStyle := &props.Cell{BackgroundColor: &props.Color{Red: 254, Green: 243, Blue: 199}}
		colIndex = colIndex.WithStyle(cellStyle)
		colMaterial = colMaterial.WithStyle(cellStyle)
		colDims = colDims.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colWeight = colWeight.WithStyle(cellStyle)
		colTotal = colTotal.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colIndex,
			colMaterial,
			colDims,
			colQty,
			colWeight,
			colTotal,
		),
	)
}

// addSummary adds the totals block at the bottom of the PDF.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := labelStyle

	lines := [][2]string{
		{"Toplam Agirlik", humanize.FormatFloat(turkishNumber, RoundMoney(data.TotalWeightKg)) + " kg"},
		{"Ham Maliyet", formatPDFMoney(data.RawCost)},
		{fmt.Sprintf("Kar (%s)", FormatPercent(data.ProfitMarginPct)), formatPDFMoney(data.ProfitAmount)},
	}
	if data.VATEnabled {
		lines = append(lines, [2]string{fmt.Sprintf("KDV (%s)", FormatPercent(data.VATPct)), formatPDFMoney(data.VATAmount)})
	}
	lines = append(lines, [2]string{"Genel Toplam", formatPDFMoney(data.FinalPrice)})

	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(
					text.New(l[0], labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(l[1], valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	if data.AmountInWords != "" {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(pdfText.Replace(data.AmountInWords), props.Text{
						Size:  8,
						Style: fontstyle.Italic,
						Align: align.Right,
						Top:   2,
					}),
				),
			),
		)
	}
}

// addFooter adds the notes and the generated-date line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
	noteStyle := props.Text{
		Size:  7,
		Align: align.Left,
		Color: &props.Color{Red: 140, Green: 140, Blue: 140},
	}

	m.AddRows(row.New(6))
	for _, n := range data.Notes {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(pdfText.Replace(n), noteStyle))))
	}
	if data.CreatedDate != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New(fmt.Sprintf("Olusturma tarihi %s", data.CreatedDate), noteStyle),
				),
			),
		)
	}
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
