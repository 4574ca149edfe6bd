package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// formatQuoteNumber constructs the quote number string from components.
func formatQuoteNumber(prefix string, year, sequence int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, sequence)
}

// GenerateQuoteNumber creates the next quote number for the year of now.
// Format: {prefix}-{YYYY}-{sequence}
// - prefix: shop quote prefix, "TKL" when empty
// - sequence: 4-digit zero-padded, restarting every calendar year
//
// The sequence continues from the highest existing number so deleting a
// quote never causes a number to be reused while later ones still exist.
func GenerateQuoteNumber(app core.App, prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = "TKL"
	}
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, now.Year())

	// Numbers past 9999 grow a digit, so the text order of quote_number
	// is not the numeric order; scan the year's numbers instead.
	existing, err := app.FindRecordsByFilter(
		"quotes",
		"quote_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": yearPrefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("find last quote number: %w", err)
	}

	next := 1
	for _, rec := range existing {
		last := strings.TrimPrefix(rec.GetString("quote_number"), yearPrefix)
		if n, err := strconv.Atoi(last); err == nil && n >= next {
			next = n + 1
		}
	}
	return formatQuoteNumber(prefix, now.Year(), next), nil
}
