package services

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedDocument is returned for documents whose text cannot be
// read without OCR (images, scanned PDFs) or whose type is unknown.
var ErrUnsupportedDocument = errors.New("unsupported document type")

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeCSV  = "text/csv"
	mimeText = "text/plain"
	mimeZip  = "application/zip"
)

// DocumentText returns the plain text of an uploaded shop document so the
// extractor can scan it. The type is sniffed from content; name is only used
// to disambiguate generic zip and text content.
func DocumentText(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(mimeXLSX), mt.Is(mimeZip) && ext == ".xlsx":
		return xlsxText(data)
	case mt.Is(mimeDOCX), mt.Is(mimeZip) && ext == ".docx":
		return docxText(data)
	case mt.Is(mimeCSV), ext == ".csv" && isText(mt):
		return csvText(data)
	case isText(mt):
		return string(data), nil
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedDocument, name, mt.String())
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return true
		}
	}
	return false
}

// xlsxText flattens every sheet: cells joined by spaces, rows by newlines.
func xlsxText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, " "))
			if line == "" {
				continue
			}
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// docxText reads word/document.xml. Paragraphs become lines; cells of a
// table row are joined by spaces so "Label | value" pairs stay on one line.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open Word file: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%w: word/document.xml missing", ErrUnsupportedDocument)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	var sb strings.Builder
	dec := xml.NewDecoder(rc)
	inText := false
	cellDepth := 0
	runDepth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "r":
				runDepth++
			case "tab":
				// w:tab also defines tab stops under w:pPr; only runs carry text.
				if runDepth > 0 {
					sb.WriteByte('\t')
				}
			case "br":
				if runDepth > 0 {
					sb.WriteByte('\n')
				}
			case "tc":
				cellDepth++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				runDepth--
			case "p":
				if cellDepth > 0 {
					sb.WriteByte(' ')
				} else {
					sb.WriteByte('\n')
				}
			case "tc":
				cellDepth--
			case "tr":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func csvText(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to parse CSV: %w", err)
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
