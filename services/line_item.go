package services

import (
	"errors"
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidInput marks a line item or rate set that cannot be costed.
var ErrInvalidInput = errors.New("invalid input")

// finite rejects NaN and ±Inf, which the range rules let through.
var finite = validation.By(func(value any) error {
	if v, ok := value.(float64); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return errors.New("must be a finite number")
	}
	return nil
})

// isFinite reports whether every value is a real number.
func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LineItem is one planned piece or nest: a material/thickness/size
// combination repeated Quantity times. All lengths are millimeters.
type LineItem struct {
	MaterialName    string  `json:"material_name"`
	ThicknessMM     float64 `json:"thickness_mm"`
	WidthMM         float64 `json:"width_mm"`
	LengthMM        float64 `json:"length_mm"`
	Quantity        int     `json:"quantity"`
	CutTimeMinutes  float64 `json:"cut_time_minutes"`
	BendCount       int     `json:"bend_count"`
	WeldTimeMinutes float64 `json:"weld_time_minutes"`
	Painted         bool    `json:"painted"`
	ScrapPct        float64 `json:"scrap_pct"`
}

// Validate checks the costing preconditions. The scrap amortization factor
// 1/(1-scrap/100) is undefined at 100 %, so scrap must stay strictly below it.
func (li LineItem) Validate() error {
	err := validation.ValidateStruct(&li,
		validation.Field(&li.ThicknessMM, finite, validation.Min(0.0)),
		validation.Field(&li.WidthMM, finite, validation.Min(0.0)),
		validation.Field(&li.LengthMM, finite, validation.Min(0.0)),
		validation.Field(&li.Quantity,
			validation.Required.Error("must be at least 1"),
			validation.Min(1)),
		validation.Field(&li.CutTimeMinutes, finite, validation.Min(0.0)),
		validation.Field(&li.BendCount, validation.Min(0)),
		validation.Field(&li.WeldTimeMinutes, finite, validation.Min(0.0)),
		validation.Field(&li.ScrapPct,
			finite,
			validation.Min(0.0),
			validation.Max(100.0).Exclusive()),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// RateConfig is the labor/tax/currency rate snapshot a quote is costed with.
// FXRate is local currency per USD.
type RateConfig struct {
	FXRate             float64 `json:"fx_rate"`
	LaserRatePerMinute float64 `json:"laser_rate_per_minute"`
	BendRatePerHit     float64 `json:"bend_rate_per_hit"`
	WeldRatePerHour    float64 `json:"weld_rate_per_hour"`
	PaintRatePerM2     float64 `json:"paint_rate_per_m2"`
	ProfitMarginPct    float64 `json:"profit_margin_pct"`
	VATPct             float64 `json:"vat_pct"`
	VATEnabled         bool    `json:"vat_enabled"`
}

// DefaultRates returns the shop's starting rates.
func DefaultRates() RateConfig {
	return RateConfig{
		FXRate:             32.5,
		LaserRatePerMinute: 25,
		BendRatePerHit:     15,
		WeldRatePerHour:    600,
		PaintRatePerM2:     180,
		ProfitMarginPct:    25,
		VATPct:             20,
		VATEnabled:         true,
	}
}

// Validate is applied before a rate set is stored. The engine itself costs
// with whatever snapshot it is handed.
func (r RateConfig) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FXRate, finite, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&r.LaserRatePerMinute, finite, validation.Min(0.0)),
		validation.Field(&r.BendRatePerHit, finite, validation.Min(0.0)),
		validation.Field(&r.WeldRatePerHour, finite, validation.Min(0.0)),
		validation.Field(&r.PaintRatePerM2, finite, validation.Min(0.0)),
		validation.Field(&r.ProfitMarginPct, finite, validation.Min(0.0), validation.Max(1000.0)),
		validation.Field(&r.VATPct, finite, validation.Min(0.0), validation.Max(100.0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// ValidateMaterial checks a catalog entry before it is stored.
func ValidateMaterial(m Material) error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&m.UnitPrice, finite, validation.Min(0.0)),
		validation.Field(&m.Currency, validation.Required, validation.In(CurrencyLocal, CurrencyUSD)),
		validation.Field(&m.Density, finite, validation.Required, validation.Min(0.0).Exclusive()),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}
