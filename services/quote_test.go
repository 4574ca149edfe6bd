package services

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestAssemble(t *testing.T) {
	single, err := Assemble([]LineItem{plate()}, testCatalog(), testRates())
	if err != nil {
		t.Fatalf("Assemble(single) error = %v", err)
	}
	double, err := Assemble([]LineItem{plate(), plate()}, testCatalog(), testRates())
	if err != nil {
		t.Fatalf("Assemble(double) error = %v", err)
	}

	if !approx(double.TotalWeightKg, 2*single.TotalWeightKg) {
		t.Errorf("TotalWeightKg = %v, want %v", double.TotalWeightKg, 2*single.TotalWeightKg)
	}
	if !approx(double.RawCost, 2*single.RawCost) {
		t.Errorf("RawCost = %v, want %v", double.RawCost, 2*single.RawCost)
	}
	if len(double.Lines) != 2 {
		t.Errorf("expected 2 line results, got %d", len(double.Lines))
	}
	if !approx(single.RawCost, 671) {
		t.Errorf("single RawCost = %v, want 671", single.RawCost)
	}
}

func TestAssemble_MarginAndVAT(t *testing.T) {
	// One local-currency line worth exactly 1000.
	cat := NewCatalog(Material{Name: "Kg", UnitPrice: 1000, Currency: CurrencyLocal, Density: 1})
	item := LineItem{MaterialName: "Kg", WidthMM: 100, LengthMM: 100, ThicknessMM: 100, Quantity: 1}

	tests := []struct {
		name       string
		rates      RateConfig
		wantProfit float64
		wantVAT    float64
		wantFinal  float64
	}{
		{"margin and vat", RateConfig{ProfitMarginPct: 25, VATPct: 20, VATEnabled: true}, 250, 250, 1500},
		{"vat disabled", RateConfig{ProfitMarginPct: 25, VATPct: 20, VATEnabled: false}, 250, 0, 1250},
		{"no margin", RateConfig{VATPct: 20, VATEnabled: true}, 0, 200, 1200},
		{"nothing", RateConfig{}, 0, 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Assemble([]LineItem{item}, cat, tt.rates)
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if !approx(q.RawCost, 1000) {
				t.Fatalf("RawCost = %v, want 1000", q.RawCost)
			}
			if !approx(q.ProfitAmount, tt.wantProfit) {
				t.Errorf("ProfitAmount = %v, want %v", q.ProfitAmount, tt.wantProfit)
			}
			if !approx(q.VATAmount, tt.wantVAT) {
				t.Errorf("VATAmount = %v, want %v", q.VATAmount, tt.wantVAT)
			}
			if !approx(q.FinalPrice, tt.wantFinal) {
				t.Errorf("FinalPrice = %v, want %v", q.FinalPrice, tt.wantFinal)
			}
		})
	}
}

func TestAssemble_Empty(t *testing.T) {
	for name, items := range map[string][]LineItem{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			q, err := Assemble(items, testCatalog(), DefaultRates())
			if err != nil {
				t.Fatalf("Assemble() error = %v", err)
			}
			if q.TotalWeightKg != 0 || q.RawCost != 0 || q.ProfitAmount != 0 || q.VATAmount != 0 || q.FinalPrice != 0 {
				t.Errorf("expected all-zero totals, got %+v", q)
			}
			if len(q.Lines) != 0 {
				t.Errorf("expected no lines, got %d", len(q.Lines))
			}
		})
	}
}

func TestAssemble_OrderIndependentTotals(t *testing.T) {
	a := plate()
	b := plate()
	b.MaterialName = "Galvaniz"
	b.ScrapPct = 10
	b.BendCount = 4
	cat := NewCatalog(append(DefaultMaterials(), testCatalog().Materials()...)...)

	q1, _ := Assemble([]LineItem{a, b}, cat, DefaultRates())
	q2, _ := Assemble([]LineItem{b, a}, cat, DefaultRates())
	if math.Abs(q1.FinalPrice-q2.FinalPrice) > 1e-6 {
		t.Errorf("FinalPrice depends on order: %v vs %v", q1.FinalPrice, q2.FinalPrice)
	}
	if q1.Lines[0] != q2.Lines[1] {
		t.Error("line results should be independent of position")
	}
}

func TestAssemble_InvalidLineNamesPosition(t *testing.T) {
	bad := plate()
	bad.ScrapPct = 100

	_, err := Assemble([]LineItem{plate(), plate(), bad}, testCatalog(), testRates())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "line 3:") {
		t.Errorf("error should name line 3, got %q", err.Error())
	}
}

func TestAssemble_RejectsOverflowingTotal(t *testing.T) {
	// Each line costs about 4.7e307, finite on its own; four of them overflow.
	big := plate()
	big.Quantity = 10_000_000
	big.WidthMM = 1e152
	big.LengthMM = 1e152
	if _, err := CostLine(big, testCatalog(), testRates()); err != nil {
		t.Fatalf("single line should still cost: %v", err)
	}

	if _, err := Assemble([]LineItem{big, big, big, big}, testCatalog(), testRates()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestQuote_FallbackLines(t *testing.T) {
	unknown := plate()
	unknown.MaterialName = "Bakır"

	q, err := Assemble([]LineItem{plate(), unknown, plate(), unknown}, testCatalog(), testRates())
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got := q.FallbackLines(); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("FallbackLines() = %v, want [2 4]", got)
	}
}

func TestItemCount(t *testing.T) {
	items := []LineItem{{Quantity: 3}, {Quantity: 1}, {Quantity: 10}}
	if got := ItemCount(items); got != 14 {
		t.Errorf("ItemCount() = %d, want 14", got)
	}
	if got := ItemCount(nil); got != 0 {
		t.Errorf("ItemCount(nil) = %d, want 0", got)
	}
}
