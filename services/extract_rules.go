package services

import (
	"regexp"
	"strconv"
	"strings"
)

// Measurement field keys, shared by ExtractedMeasurement.Origins, the line
// importer and the JSON API.
const (
	FieldWidth    = "width_mm"
	FieldLength   = "length_mm"
	FieldThick    = "thickness_mm"
	FieldCutTime  = "cut_time_minutes"
	FieldScrap    = "scrap_pct"
	FieldMaterial = "material_name"
)

// ExtractRule is one entry of the extraction table: a pattern, the field it
// fills and the converter from the captured groups to a value. Rules marked
// Folded run against the case-folded text; the others see the NFC text as is.
type ExtractRule struct {
	Name    string
	Field   string
	Folded  bool
	Pattern *regexp.Regexp
	Convert func(groups []string) (float64, bool)
}

// Match applies the rule to text and reports the converted value.
func (r ExtractRule) Match(text string) (float64, bool) {
	groups := r.Pattern.FindStringSubmatch(text)
	if groups == nil {
		return 0, false
	}
	return r.Convert(groups)
}

const number = `(\d+(?:[.,]\d+)?)`

// extractRules is evaluated top to bottom; the first rule producing a value
// for a field wins, so order encodes priority (the 3000x1500 plate size beats
// a generic thickness label).
var extractRules = []ExtractRule{
	{
		Name:    "cut_time",
		Field:   FieldCutTime,
		Folded:  true,
		Pattern: regexp.MustCompile(`(?:kesim|cut|time|süre)[^\n]*?(\d{1,3}:\d{2}:\d{2})`),
		Convert: func(g []string) (float64, bool) {
			v := ParseDuration(g[1])
			return v, v > 0
		},
	},
	{
		// 3-5 integer digits keeps page numbers and other small integers out.
		Name:    "width_x",
		Field:   FieldWidth,
		Pattern: regexp.MustCompile(`\bX\s*[:=]?\s*(\d{3,5}(?:[.,]\d+)?)(?:\D|$)`),
		Convert: firstDecimal,
	},
	{
		Name:    "length_y",
		Field:   FieldLength,
		Pattern: regexp.MustCompile(`\bY\s*[:=]?\s*(\d{3,5}(?:[.,]\d+)?)(?:\D|$)`),
		Convert: firstDecimal,
	},
	{
		Name:    "thickness_plate",
		Field:   FieldThick,
		Folded:  true,
		Pattern: regexp.MustCompile(`3000\s*[xX*×]\s*1500\s*[xX*×]\s*` + number),
		Convert: positiveDecimal,
	},
	{
		Name:    "thickness_label",
		Field:   FieldThick,
		Folded:  true,
		Pattern: regexp.MustCompile(`\b(?:kalinlik|thick(?:ness)?|sac)\s*(?:\(mm\))?\s*[:=]\s*` + number),
		Convert: positiveDecimal,
	},
	{
		Name:    "scrap_fire",
		Field:   FieldScrap,
		Folded:  true,
		Pattern: regexp.MustCompile(`\bfire\s*(?:\(%\))?\s*[:=]?\s*%?\s*` + number),
		Convert: func(g []string) (float64, bool) {
			v, ok := parseDecimal(g[1])
			// A ratio of 100 % or more could never be costed.
			if !ok || v >= 100 {
				return 0, false
			}
			return v, true
		},
	},
}

// ExtractRules returns a copy of the rule table.
func ExtractRules() []ExtractRule {
	out := make([]ExtractRule, len(extractRules))
	copy(out, extractRules)
	return out
}

func firstDecimal(g []string) (float64, bool) {
	return parseDecimal(g[1])
}

func positiveDecimal(g []string) (float64, bool) {
	v, ok := parseDecimal(g[1])
	return v, ok && v > 0
}

// parseDecimal accepts either comma or period as the decimal mark.
func parseDecimal(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// materialKeyword maps a folded keyword to a catalog name. Resolve receives
// the folded line the keyword was found on.
type materialKeyword struct {
	Keyword string
	Resolve func(line string) string
}

func fixedMaterial(name string) func(string) string {
	return func(string) string { return name }
}

// materialKeywords is scanned in order; the first keyword present wins.
var materialKeywords = []materialKeyword{
	{Keyword: "hardox", Resolve: func(line string) string {
		switch {
		case strings.Contains(line, "400"):
			return "Hardox 400"
		case strings.Contains(line, "500"):
			return "Hardox 500"
		default:
			return "Hardox 450"
		}
	}},
	{Keyword: "paslanmaz", Resolve: fixedMaterial("Paslanmaz 304")},
	{Keyword: "inox", Resolve: fixedMaterial("Paslanmaz 304")},
	{Keyword: "304", Resolve: fixedMaterial("Paslanmaz 304")},
	{Keyword: "galvaniz", Resolve: fixedMaterial("Galvaniz")},
	{Keyword: "alu", Resolve: fixedMaterial("Alüminyum")},
	{Keyword: "alü", Resolve: fixedMaterial("Alüminyum")},
	{Keyword: "dkp", Resolve: fixedMaterial("DKP")},
	{Keyword: "st37", Resolve: fixedMaterial("DKP")},
	{Keyword: "s235", Resolve: fixedMaterial("DKP")},
}

// InferMaterial scans text for the material keyword table and returns the
// matching catalog name.
func InferMaterial(text string) (string, bool) {
	return inferMaterialFolded(foldText(text))
}

func inferMaterialFolded(folded string) (string, bool) {
	for _, kw := range materialKeywords {
		idx := strings.Index(folded, kw.Keyword)
		if idx < 0 {
			continue
		}
		return kw.Resolve(lineAround(folded, idx)), true
	}
	return "", false
}

// lineAround returns the line of s containing byte offset idx.
func lineAround(s string, idx int) string {
	start := strings.LastIndexByte(s[:idx], '\n') + 1
	end := strings.IndexByte(s[idx:], '\n')
	if end < 0 {
		return s[start:]
	}
	return s[start : idx+end]
}
