package config

import (
	"os"
	"path/filepath"
	"testing"

	"sheetquote/services"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RateConfig() != services.DefaultRates() {
		t.Errorf("RateConfig() = %+v, want defaults", cfg.RateConfig())
	}
	if len(cfg.Materials) != len(services.DefaultMaterials()) {
		t.Errorf("got %d materials, want %d", len(cfg.Materials), len(services.DefaultMaterials()))
	}
	if cfg.Shop.QuotePrefix != "TKL" {
		t.Errorf("QuotePrefix = %q, want TKL", cfg.Shop.QuotePrefix)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "shop.toml", `
[shop]
name = "Yıldız Lazer"

[rates]
fx_rate = 34.1
vat_enabled = false

[[materials]]
name = "DKP"
unit_price = 28.5
currency = "LOCAL"
density = 7.85
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Shop.Name != "Yıldız Lazer" {
		t.Errorf("Shop.Name = %q", cfg.Shop.Name)
	}
	if cfg.Rates.FXRate != 34.1 {
		t.Errorf("FXRate = %v, want 34.1", cfg.Rates.FXRate)
	}
	if cfg.Rates.VATEnabled {
		t.Error("VATEnabled should be false")
	}
	// untouched keys keep their defaults
	if cfg.Rates.LaserRatePerMinute != services.DefaultRates().LaserRatePerMinute {
		t.Errorf("LaserRatePerMinute = %v", cfg.Rates.LaserRatePerMinute)
	}

	mats := cfg.SeedMaterials()
	if len(mats) != 1 {
		t.Fatalf("expected file materials to replace defaults, got %d", len(mats))
	}
	if mats[0].Currency != services.CurrencyLocal || mats[0].UnitPrice != 28.5 {
		t.Errorf("material = %+v", mats[0])
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "bad.toml", "[rates\nfx_rate = ")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHEETQUOTE_FX_RATE", "35,25")
	t.Setenv("SHEETQUOTE_WORKERS", "2")
	t.Setenv("SHEETQUOTE_DEFAULT_MATERIAL", "Galvaniz")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Rates.FXRate != 35.25 {
		t.Errorf("FXRate = %v, want 35.25", cfg.Rates.FXRate)
	}
	ec := cfg.ExtractorConfig()
	if ec.Workers != 2 || ec.DefaultMaterial != "Galvaniz" {
		t.Errorf("ExtractorConfig() = %+v", ec)
	}
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHEETQUOTE_MAX_UPLOAD_MB", "lots")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for non-numeric SHEETQUOTE_MAX_UPLOAD_MB")
	}
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := Default()
	cfg.Extraction.MaxUploadMB = 0
	if got := cfg.MaxUploadBytes(); got != 20<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", got, 20<<20)
	}
	cfg.Extraction.MaxUploadMB = 5
	if got := cfg.MaxUploadBytes(); got != 5<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", got, 5<<20)
	}
}
