package services

import (
	"testing"
)

func TestGeneratePDF_Quote(t *testing.T) {
	result, err := GeneratePDF(sampleExportData())
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) < 5 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_EmptyQuote(t *testing.T) {
	result, err := GeneratePDF(ExportData{Title: "Fiyat Teklifi"})
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestGeneratePDF_ManyLines(t *testing.T) {
	data := sampleExportData()
	for i := 3; i <= 80; i++ {
		data.Rows = append(data.Rows, ExportRow{Index: i, Material: "ST37", ThicknessMM: 3, Dimensions: "100 x 100", Quantity: 1, LineTotal: 10})
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestFormatPDFMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0,00 TL"},
		{1500, "1.500,00 TL"},
		{-12.345, "-12,35 TL"},
	}
	for _, tt := range tests {
		if got := formatPDFMoney(tt.in); got != tt.want {
			t.Errorf("formatPDFMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPDFText(t *testing.T) {
	if got := pdfText.Replace("Müşteri İşçilik Ağırlık"); got != "Müsteri Iscilik Agirlik" {
		t.Errorf("pdfText = %q", got)
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{10, "10"},
		{0, "0"},
		{2.5, "2.50"},
		{1000, "1000"},
	}
	for _, tt := range tests {
		if got := formatQty(tt.input); got != tt.want {
			t.Errorf("formatQty(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
