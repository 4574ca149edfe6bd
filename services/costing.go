package services

import (
	"fmt"
)

// LineCostResult is the costed breakdown of one line item. It is derived
// from its inputs and recomputed whenever they change.
type LineCostResult struct {
	MaterialName     string  `json:"material_name"`
	MaterialFallback bool    `json:"material_fallback"`
	WeightKg         float64 `json:"weight_kg"`
	MaterialCost     float64 `json:"material_cost"`
	CutCost          float64 `json:"cut_cost"`
	BendCost         float64 `json:"bend_cost"`
	WeldCost         float64 `json:"weld_cost"`
	PaintCost        float64 `json:"paint_cost"`
	ProcessCost      float64 `json:"process_cost"`
	LineTotal        float64 `json:"line_total"`
}

// ScrapMultiplier returns the amortization factor 1/(1-pct/100) that spreads
// cutting waste over the finished material. It grows without bound as pct
// approaches 100, and pct >= 100 is rejected.
func ScrapMultiplier(pct float64) (float64, error) {
	if pct < 0 || pct >= 100 {
		return 0, fmt.Errorf("%w: scrap_pct %v must be in [0, 100)", ErrInvalidInput, pct)
	}
	return 1 / (1 - pct/100), nil
}

// LocalUnitPrice converts a material's per-kg price into local currency.
func LocalUnitPrice(m Material, rates RateConfig) float64 {
	if m.Currency == CurrencyUSD {
		return m.UnitPrice * rates.FXRate
	}
	return m.UnitPrice
}

// PaintAreaM2 is the painted surface of a flat piece: both faces of
// width × length, edges ignored.
func PaintAreaM2(widthMM, lengthMM float64) float64 {
	return widthMM * lengthMM / 1_000_000 * 2
}

// CostLine computes weight, material cost and process cost for one line.
// An unknown material is costed as FallbackMaterial and flagged instead of
// failing, so one bad reference does not block the rest of an order.
func CostLine(item LineItem, catalog Catalog, rates RateConfig) (LineCostResult, error) {
	if err := item.Validate(); err != nil {
		return LineCostResult{}, err
	}

	material, ok := catalog.Lookup(item.MaterialName)
	if !ok {
		material = FallbackMaterial
	}

	qty := float64(item.Quantity)

	volumeMM3 := item.WidthMM * item.LengthMM * item.ThicknessMM
	unitWeightKg := volumeMM3 * material.Density / 1_000_000
	totalWeightKg := unitWeightKg * qty

	scrap, err := ScrapMultiplier(item.ScrapPct)
	if err != nil {
		return LineCostResult{}, err
	}
	materialCost := totalWeightKg * LocalUnitPrice(material, rates) * scrap

	cutCost := item.CutTimeMinutes * qty * rates.LaserRatePerMinute
	bendCost := float64(item.BendCount) * qty * rates.BendRatePerHit
	weldCost := item.WeldTimeMinutes / 60 * qty * rates.WeldRatePerHour
	var paintCost float64
	if item.Painted {
		paintCost = PaintAreaM2(item.WidthMM, item.LengthMM) * rates.PaintRatePerM2 * qty
	}
	processCost := cutCost + bendCost + weldCost + paintCost
	if !isFinite(totalWeightKg, materialCost, processCost, materialCost+processCost) {
		return LineCostResult{}, fmt.Errorf("%w: line cost overflows", ErrInvalidInput)
	}

	return LineCostResult{
		MaterialName:     material.Name,
		MaterialFallback: !ok,
		WeightKg:         totalWeightKg,
		MaterialCost:     materialCost,
		CutCost:          cutCost,
		BendCost:         bendCost,
		WeldCost:         weldCost,
		PaintCost:        paintCost,
		ProcessCost:      processCost,
		LineTotal:        materialCost + processCost,
	}, nil
}
