package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// LineImportResult is returned after parsing and validating an uploaded
// line item sheet. Items holds the valid rows only, in file order.
type LineImportResult struct {
	TotalRows    int               `json:"total_rows"`
	ValidRows    int               `json:"valid_rows"`
	ErrorRows    int               `json:"error_rows"`
	Items        []LineItem        `json:"items"`
	Errors       []ValidationError `json:"errors"`
	Unrecognized []string          `json:"unrecognized_columns"`
	FileName     string            `json:"-"`
}

// ImportColumn describes one recognised column of a line item sheet.
type ImportColumn struct {
	Key      string
	Label    string
	Required bool
	Aliases  []string
}

const colUnit = "unit"

var importColumns = []ImportColumn{
	{Key: "material_name", Label: "Malzeme", Required: true, Aliases: []string{"material", "malzeme adi", "sac cinsi"}},
	{Key: "thickness_mm", Label: "Kalınlık", Required: true, Aliases: []string{"thickness", "kalinlik", "sac kalinligi"}},
	{Key: "width_mm", Label: "En", Required: true, Aliases: []string{"width", "genislik", "x"}},
	{Key: "length_mm", Label: "Boy", Required: true, Aliases: []string{"length", "uzunluk", "y"}},
	{Key: "quantity", Label: "Adet", Required: true, Aliases: []string{"quantity", "qty", "miktar"}},
	{Key: "cut_time_minutes", Label: "Kesim Süresi", Aliases: []string{"cut time", "kesim", "kesim suresi (dk)"}},
	{Key: "bend_count", Label: "Büküm", Aliases: []string{"bends", "bend count", "bukum sayisi"}},
	{Key: "weld_time_minutes", Label: "Kaynak Süresi", Aliases: []string{"weld time", "kaynak", "kaynak (dk)"}},
	{Key: "painted", Label: "Boya", Aliases: []string{"painted", "paint", "boyali"}},
	{Key: "scrap_pct", Label: "Fire", Aliases: []string{"scrap", "fire %", "fire (%)"}},
	{Key: colUnit, Label: "Birim", Aliases: []string{"unit", "olcu birimi"}},
}

// ImportColumns returns the recognised columns in template order.
func ImportColumns() []ImportColumn {
	out := make([]ImportColumn, len(importColumns))
	copy(out, importColumns)
	return out
}

// parseCSV reads a CSV file and returns headers + data rows. Semicolon
// separated files, common from Turkish-locale spreadsheets, are detected.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := allRows[0]
	dataRows := allRows[1:]
	return headers, dataRows, nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	headers := rows[0]
	dataRows := rows[1:]
	return headers, dataRows, nil
}

// normalizeHeader folds case and Turkish letters and strips the template's
// required marker and a trailing "(mm)" style unit hint.
func normalizeHeader(h string) string {
	norm := foldName(h)
	norm = strings.TrimSpace(strings.TrimSuffix(norm, "*"))
	if i := strings.LastIndex(norm, "("); i > 0 && strings.HasSuffix(norm, ")") {
		if hint := norm[i+1 : len(norm)-1]; hint == "mm" || hint == "cm" || hint == "m" || hint == "dk" || hint == "adet" {
			norm = strings.TrimSpace(norm[:i])
		}
	}
	return norm
}

// mapHeadersToFields maps uploaded column headers to column keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, columns []ImportColumn) ([]string, []string) {
	labelToKey := make(map[string]string)
	for _, c := range columns {
		labelToKey[normalizeHeader(c.Label)] = c.Key
		labelToKey[normalizeHeader(c.Key)] = c.Key
		for _, a := range c.Aliases {
			labelToKey[normalizeHeader(a)] = c.Key
		}
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		if key, ok := labelToKey[normalizeHeader(h)]; ok {
			mapped[i] = key
		} else {
			mapped[i] = ""
			if strings.TrimSpace(h) != "" {
				unrecognized = append(unrecognized, h)
			}
		}
	}
	return mapped, unrecognized
}

// ImportLineItems parses a CSV or XLSX sheet of line items. A file-level
// problem returns an error; row problems are collected in the result.
func ImportLineItems(name string, r io.Reader) (*LineImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(name)
	if strings.HasSuffix(lowerName, ".csv") {
		headers, dataRows, err = parseCSV(r)
	} else if strings.HasSuffix(lowerName, ".xlsx") {
		headers, dataRows, err = parseExcel(r)
	} else {
		return nil, fmt.Errorf("%w: unsupported file format: must be .csv or .xlsx", ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	columnKeys, unrecognized := mapHeadersToFields(headers, importColumns)
	present := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		present[k] = true
	}
	for _, c := range importColumns {
		if c.Required && !present[c.Key] {
			return nil, fmt.Errorf("%w: missing required column %q", ErrInvalidInput, c.Label)
		}
	}

	result := &LineImportResult{
		FileName:     name,
		Unrecognized: unrecognized,
		Items:        make([]LineItem, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[colIdx])
			rowData[key] = value
			if value != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		item, rowErrors := lineItemFromRow(rowNum, rowData)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Items = append(result.Items, item)
	}
	result.ValidRows = len(result.Items)

	return result, nil
}

func columnLabel(key string) string {
	for _, c := range importColumns {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}

// lineItemFromRow coerces one row. Dimensions are converted to millimeters
// using the row's unit column (millimeters when absent).
func lineItemFromRow(rowNum int, data map[string]string) (LineItem, []ValidationError) {
	var errs []ValidationError
	fail := func(key, msg string) {
		errs = append(errs, ValidationError{Row: rowNum, Field: columnLabel(key), Message: msg})
	}

	for _, c := range importColumns {
		if c.Required && data[c.Key] == "" {
			fail(c.Key, fmt.Sprintf("%s is required", c.Label))
		}
	}
	if len(errs) > 0 {
		return LineItem{}, errs
	}

	number := func(key string) float64 {
		v := data[key]
		if v == "" {
			return 0
		}
		f, err := cast.ToFloat64E(strings.Replace(v, ",", ".", 1))
		if err != nil || !isFinite(f) {
			fail(key, fmt.Sprintf("%q is not a number", v))
			return 0
		}
		return f
	}
	integer := func(key string) int {
		v := data[key]
		if v == "" {
			return 0
		}
		f, err := cast.ToFloat64E(strings.Replace(v, ",", ".", 1))
		if err != nil || !isFinite(f) || f != math.Trunc(f) {
			fail(key, fmt.Sprintf("%q is not a whole number", v))
			return 0
		}
		return int(f)
	}

	unit := ParseLengthUnit(data[colUnit])
	item := LineItem{
		MaterialName:    data["material_name"],
		ThicknessMM:     number("thickness_mm"),
		WidthMM:         NormalizeLength(number("width_mm"), unit),
		LengthMM:        NormalizeLength(number("length_mm"), unit),
		Quantity:        integer("quantity"),
		BendCount:       integer("bend_count"),
		WeldTimeMinutes: number("weld_time_minutes"),
		Painted:         parseYesNo(data["painted"]),
		ScrapPct:        number("scrap_pct"),
	}
	if v := data["cut_time_minutes"]; strings.Contains(v, ":") {
		item.CutTimeMinutes = ParseDuration(v)
		if item.CutTimeMinutes == 0 && strings.Trim(v, "0:") != "" {
			fail("cut_time_minutes", fmt.Sprintf("%q is not a duration", v))
		}
	} else {
		item.CutTimeMinutes = number("cut_time_minutes")
	}
	if len(errs) > 0 {
		return LineItem{}, errs
	}

	if err := item.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			fail("", err.Error())
			return LineItem{}, errs
		}
		keys := make([]string, 0, len(verrs))
		for k := range verrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fail(k, verrs[k].Error())
		}
		return LineItem{}, errs
	}
	return item, nil
}

// parseYesNo accepts Turkish and English yes words plus anything
// strconv-style booleans accept.
func parseYesNo(v string) bool {
	switch foldName(v) {
	case "", "hayir", "yok", "no", "-":
		return false
	case "evet", "var", "yes", "x", "e", "y":
		return true
	}
	return cast.ToBool(v)
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Hatalar"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Satır")
	f.SetCellValue(sheet, "B1", "Alan")
	f.SetCellValue(sheet, "C1", "Hata")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
