package services

import (
	"context"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// FieldOrigin tells the editing surface whether a value was read from the
// source text or is a default the operator should check.
type FieldOrigin string

const (
	OriginDefault    FieldOrigin = "default"
	OriginRecognized FieldOrigin = "recognized"
)

// ExtractedMeasurement is the best-effort reading of one machine report.
// Every field is always populated; Origins records which ones were found.
type ExtractedMeasurement struct {
	Source         string                 `json:"source"`
	WidthMM        float64                `json:"width_mm"`
	LengthMM       float64                `json:"length_mm"`
	ThicknessMM    float64                `json:"thickness_mm"`
	CutTimeMinutes float64                `json:"cut_time_minutes"`
	ScrapPct       float64                `json:"scrap_pct"`
	MaterialName   string                 `json:"material_name"`
	Origins        map[string]FieldOrigin `json:"origins"`
}

// Unrecognized lists the fields still holding their defaults, sorted.
func (m ExtractedMeasurement) Unrecognized() []string {
	var out []string
	for field, origin := range m.Origins {
		if origin == OriginDefault {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}

// LineItem seeds an editable line item from the measurement.
func (m ExtractedMeasurement) LineItem(quantity int) LineItem {
	if quantity < 1 {
		quantity = 1
	}
	return LineItem{
		MaterialName:   m.MaterialName,
		ThicknessMM:    m.ThicknessMM,
		WidthMM:        m.WidthMM,
		LengthMM:       m.LengthMM,
		Quantity:       quantity,
		CutTimeMinutes: m.CutTimeMinutes,
		ScrapPct:       m.ScrapPct,
	}
}

func (m *ExtractedMeasurement) set(field string, v float64) {
	switch field {
	case FieldWidth:
		m.WidthMM = v
	case FieldLength:
		m.LengthMM = v
	case FieldThick:
		m.ThicknessMM = v
	case FieldCutTime:
		m.CutTimeMinutes = v
	case FieldScrap:
		m.ScrapPct = v
	default:
		return
	}
	m.Origins[field] = OriginRecognized
}

// ExtractorConfig holds the values unrecognized fields fall back to.
type ExtractorConfig struct {
	DefaultMaterial    string
	DefaultThicknessMM float64
	// Workers bounds ExtractAll's parallelism; 0 means unbounded.
	Workers int
}

// Extractor turns free-form report text into measurements.
type Extractor struct {
	cfg   ExtractorConfig
	rules []ExtractRule
}

// NewExtractor returns an Extractor using the package rule table.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.DefaultMaterial == "" {
		cfg.DefaultMaterial = FallbackMaterial.Name
	}
	if cfg.DefaultThicknessMM <= 0 {
		cfg.DefaultThicknessMM = 2.0
	}
	return &Extractor{cfg: cfg, rules: extractRules}
}

// Defaults returns the measurement reported when nothing is recognized.
func (x *Extractor) Defaults() ExtractedMeasurement {
	return ExtractedMeasurement{
		ThicknessMM:  x.cfg.DefaultThicknessMM,
		MaterialName: x.cfg.DefaultMaterial,
		Origins: map[string]FieldOrigin{
			FieldWidth:    OriginDefault,
			FieldLength:   OriginDefault,
			FieldThick:    OriginDefault,
			FieldCutTime:  OriginDefault,
			FieldScrap:    OriginDefault,
			FieldMaterial: OriginDefault,
		},
	}
}

// Extract never fails: unmatched patterns leave defaults, and a panic in the
// matching machinery yields an all-default measurement.
func (x *Extractor) Extract(raw string) (m ExtractedMeasurement) {
	m = x.Defaults()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("extract: recovered from panic, using defaults: %v", r)
			m = x.Defaults()
		}
	}()

	text := norm.NFC.String(raw)
	folded := foldText(text)

	for _, rule := range x.rules {
		if m.Origins[rule.Field] == OriginRecognized {
			continue
		}
		src := text
		if rule.Folded {
			src = folded
		}
		if v, ok := rule.Match(src); ok {
			m.set(rule.Field, v)
		}
	}

	if name, ok := inferMaterialFolded(folded); ok {
		m.MaterialName = name
		m.Origins[FieldMaterial] = OriginRecognized
	}
	return m
}

// SourceText is one document's text plus a label for the result.
type SourceText struct {
	Name string
	Text string
}

// ExtractAll extracts every document concurrently. Results keep input order.
// The only error is ctx being done.
func (x *Extractor) ExtractAll(ctx context.Context, docs []SourceText) ([]ExtractedMeasurement, error) {
	out := make([]ExtractedMeasurement, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	if x.cfg.Workers > 0 {
		g.SetLimit(x.cfg.Workers)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m := x.Extract(doc.Text)
			m.Source = doc.Name
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
