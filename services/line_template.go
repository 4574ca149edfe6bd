package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	templateSheet  = "Parçalar"
	materialsSheet = "Malzemeler"
)

// columnHelp is shown on the instructions sheet of the import template.
var columnHelp = map[string]struct {
	Rule    string
	Example string
}{
	"material_name":     {"Katalogdaki malzeme adı", "DKP"},
	"thickness_mm":      {"mm, ondalık virgül veya nokta", "2,5"},
	"width_mm":          {"Birim sütunundaki birimle", "1000"},
	"length_mm":         {"Birim sütunundaki birimle", "2000"},
	"quantity":          {"Tam sayı, en az 1", "4"},
	"cut_time_minutes":  {"Dakika veya SS:DD:ss", "00:12:30"},
	"bend_count":        {"Parça başına büküm sayısı", "3"},
	"weld_time_minutes": {"Parça başına dakika", "5"},
	"painted":           {"Evet / Hayır", "Evet"},
	"scrap_pct":         {"0 ile 100 arası (100 hariç)", "12"},
	colUnit:             {"mm, cm veya m; boşsa mm", "mm"},
}

// GenerateLineImportTemplate creates a downloadable .xlsx template for line
// item imports. materials feeds the Malzeme dropdown.
func GenerateLineImportTemplate(materials []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, templateSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(importColumns))
	for i, c := range importColumns {
		cell := columns[i] + "1"

		headerText := c.Label
		style := optionalHeaderStyle
		if c.Required {
			headerText += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(templateSheet, cell, headerText)
		f.SetCellStyle(templateSheet, cell, cell, style)

		width := float64(len(c.Label)) * 1.3
		if width < 12 {
			width = 12
		}
		f.SetColWidth(templateSheet, columns[i], columns[i], width)
	}

	// Dropdowns. Material names live on a hidden sheet since a literal
	// list is capped at 255 characters.
	if len(materials) > 0 {
		f.NewSheet(materialsSheet)
		for i, name := range materials {
			f.SetCellValue(materialsSheet, fmt.Sprintf("A%d", i+1), name)
		}
		f.SetSheetVisible(materialsSheet, false)
	}
	for i, c := range importColumns {
		rangeRef := fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])

		dv := excelize.NewDataValidation(true)
		dv.Sqref = rangeRef
		switch c.Key {
		case "material_name":
			if len(materials) == 0 {
				continue
			}
			dv.SetSqrefDropList(fmt.Sprintf("%s!$A$1:$A$%d", materialsSheet, len(materials)))
		case "painted":
			dv.SetDropList([]string{"Evet", "Hayır"})
		case colUnit:
			dv.SetDropList([]string{"mm", "cm", "m"})
		default:
			continue
		}
		if err := f.AddDataValidation(templateSheet, dv); err != nil {
			return nil, fmt.Errorf("add %s dropdown: %w", c.Key, err)
		}
	}

	f.SetPanes(templateSheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a sheet describing each template column.
func addInstructionsSheet(f *excelize.File) {
	instSheet := "Açıklamalar"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Parça Listesi İçe Aktarma - Açıklamalar")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	instructionHeaders := []string{"Sütun", "Zorunlu?", "Biçim", "Örnek"}
	cols := columnLetters(len(instructionHeaders))
	for i, h := range instructionHeaders {
		cell := fmt.Sprintf("%s3", cols[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, c := range importColumns {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Hayır"
		if c.Required {
			reqLabel = "Evet"
		}
		help := columnHelp[c.Key]
		f.SetCellValue(instSheet, cols[0]+row, c.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, help.Rule)
		f.SetCellValue(instSheet, cols[3]+row, help.Example)
	}

	widths := []float64{18, 10, 34, 14}
	for i, w := range widths {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
