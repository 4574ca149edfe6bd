package services

import (
	"strconv"
	"strings"
)

// LengthUnit is the unit a raw length measurement was entered in.
type LengthUnit string

const (
	UnitMM LengthUnit = "mm"
	UnitCM LengthUnit = "cm"
	UnitM  LengthUnit = "m"
)

// NormalizeLength converts value to millimeters. Unknown units are treated as
// millimeters. Negative values pass through unchanged; callers validate.
func NormalizeLength(value float64, unit LengthUnit) float64 {
	switch unit {
	case UnitCM:
		return value * 10
	case UnitM:
		return value * 1000
	default:
		return value
	}
}

// ParseLengthUnit maps a free-form unit label ("MM", " cm", "m") to a
// LengthUnit. Anything unrecognized is millimeters.
func ParseLengthUnit(s string) LengthUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cm":
		return UnitCM
	case "m", "mt", "metre", "meter":
		return UnitM
	default:
		return UnitMM
	}
}

// ParseDuration converts "HH:MM:SS" or "MM:SS" into minutes.
// Any other shape returns 0, which is indistinguishable from "no time".
//
//	"01:02:03" → 62.05
//	"10:30"    → 10.5
func ParseDuration(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		nums[i] = n
	}

	if len(nums) == 3 {
		return float64(nums[0])*60 + float64(nums[1]) + float64(nums[2])/60
	}
	return float64(nums[0]) + float64(nums[1])/60
}
