// Package config loads shop configuration.
//
// Precedence (later wins):
//   - built-in defaults
//   - sheetquote.toml (or the file named by SHEETQUOTE_CONFIG)
//   - SHEETQUOTE_* environment variables, with .env loaded first
//
// Rates and materials here only seed the database on first start; after that
// the settings stored in PocketBase are authoritative.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"sheetquote/services"
)

// DefaultPath is used when SHEETQUOTE_CONFIG is unset.
const DefaultPath = "sheetquote.toml"

// Config holds all application configuration.
type Config struct {
	Shop       ShopConfig       `toml:"shop"`
	Extraction ExtractionConfig `toml:"extraction"`
	Rates      RatesConfig      `toml:"rates"`
	Materials  []MaterialConfig `toml:"materials"`
}

// ShopConfig is printed on quote documents.
type ShopConfig struct {
	Name        string `toml:"name"`
	Address     string `toml:"address"`
	Phone       string `toml:"phone"`
	Email       string `toml:"email"`
	QuotePrefix string `toml:"quote_prefix"`
}

// ExtractionConfig controls the measurement extractor and uploads.
type ExtractionConfig struct {
	DefaultMaterial    string  `toml:"default_material"`
	DefaultThicknessMM float64 `toml:"default_thickness_mm"`
	MaxUploadMB        int     `toml:"max_upload_mb"`
	Workers            int     `toml:"workers"`
}

// RatesConfig seeds the shop_settings row.
type RatesConfig struct {
	FXRate             float64 `toml:"fx_rate"`
	LaserRatePerMinute float64 `toml:"laser_rate_per_minute"`
	BendRatePerHit     float64 `toml:"bend_rate_per_hit"`
	WeldRatePerHour    float64 `toml:"weld_rate_per_hour"`
	PaintRatePerM2     float64 `toml:"paint_rate_per_m2"`
	ProfitMarginPct    float64 `toml:"profit_margin_pct"`
	VATPct             float64 `toml:"vat_pct"`
	VATEnabled         bool    `toml:"vat_enabled"`
}

// MaterialConfig seeds one materials row.
type MaterialConfig struct {
	Name      string  `toml:"name"`
	UnitPrice float64 `toml:"unit_price"`
	Currency  string  `toml:"currency"`
	Density   float64 `toml:"density"`
}

// Default returns the built-in configuration.
func Default() *Config {
	r := services.DefaultRates()
	cfg := &Config{
		Shop: ShopConfig{
			Name:        "Sac Kesim Atölyesi",
			QuotePrefix: "TKL",
		},
		Extraction: ExtractionConfig{
			DefaultMaterial:    services.FallbackMaterial.Name,
			DefaultThicknessMM: 2.0,
			MaxUploadMB:        20,
			Workers:            4,
		},
		Rates: RatesConfig{
			FXRate:             r.FXRate,
			LaserRatePerMinute: r.LaserRatePerMinute,
			BendRatePerHit:     r.BendRatePerHit,
			WeldRatePerHour:    r.WeldRatePerHour,
			PaintRatePerM2:     r.PaintRatePerM2,
			ProfitMarginPct:    r.ProfitMarginPct,
			VATPct:             r.VATPct,
			VATEnabled:         r.VATEnabled,
		},
	}
	for _, m := range services.DefaultMaterials() {
		cfg.Materials = append(cfg.Materials, MaterialConfig{
			Name:      m.Name,
			UnitPrice: m.UnitPrice,
			Currency:  string(m.Currency),
			Density:   m.Density,
		})
	}
	return cfg
}

// Load builds the configuration. An empty path means SHEETQUOTE_CONFIG or
// DefaultPath. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("SHEETQUOTE_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	// A [[materials]] list in the file replaces the defaults rather than
	// being merged into them element by element.
	defaults := cfg.Materials
	cfg.Materials = nil
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if len(cfg.Materials) == 0 {
		cfg.Materials = defaults
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SHEETQUOTE_SHOP_NAME"); v != "" {
		c.Shop.Name = v
	}
	if v := os.Getenv("SHEETQUOTE_QUOTE_PREFIX"); v != "" {
		c.Shop.QuotePrefix = v
	}
	if v := os.Getenv("SHEETQUOTE_DEFAULT_MATERIAL"); v != "" {
		c.Extraction.DefaultMaterial = v
	}
	if v := os.Getenv("SHEETQUOTE_FX_RATE"); v != "" {
		f, err := cast.ToFloat64E(strings.ReplaceAll(v, ",", "."))
		if err != nil {
			return fmt.Errorf("config: SHEETQUOTE_FX_RATE: %w", err)
		}
		c.Rates.FXRate = f
	}
	if v := os.Getenv("SHEETQUOTE_MAX_UPLOAD_MB"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("config: SHEETQUOTE_MAX_UPLOAD_MB: %w", err)
		}
		c.Extraction.MaxUploadMB = n
	}
	if v := os.Getenv("SHEETQUOTE_WORKERS"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("config: SHEETQUOTE_WORKERS: %w", err)
		}
		c.Extraction.Workers = n
	}
	return nil
}

// RateConfig converts the seed rates to the engine type.
func (c *Config) RateConfig() services.RateConfig {
	return services.RateConfig{
		FXRate:             c.Rates.FXRate,
		LaserRatePerMinute: c.Rates.LaserRatePerMinute,
		BendRatePerHit:     c.Rates.BendRatePerHit,
		WeldRatePerHour:    c.Rates.WeldRatePerHour,
		PaintRatePerM2:     c.Rates.PaintRatePerM2,
		ProfitMarginPct:    c.Rates.ProfitMarginPct,
		VATPct:             c.Rates.VATPct,
		VATEnabled:         c.Rates.VATEnabled,
	}
}

// SeedMaterials converts the seed catalog to engine materials. An unknown
// currency is treated as local.
func (c *Config) SeedMaterials() []services.Material {
	out := make([]services.Material, 0, len(c.Materials))
	for _, m := range c.Materials {
		cur := services.CurrencyLocal
		if strings.EqualFold(m.Currency, string(services.CurrencyUSD)) {
			cur = services.CurrencyUSD
		}
		out = append(out, services.Material{
			Name:      m.Name,
			UnitPrice: m.UnitPrice,
			Currency:  cur,
			Density:   m.Density,
		})
	}
	return out
}

// ExtractorConfig converts the extraction section to the engine type.
func (c *Config) ExtractorConfig() services.ExtractorConfig {
	return services.ExtractorConfig{
		DefaultMaterial:    c.Extraction.DefaultMaterial,
		DefaultThicknessMM: c.Extraction.DefaultThicknessMM,
		Workers:            c.Extraction.Workers,
	}
}

// MaxUploadBytes is the multipart memory limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	if c.Extraction.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(c.Extraction.MaxUploadMB) << 20
}
