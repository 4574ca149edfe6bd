package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// dotFolder strips the combining dot left behind by lowering "İ" and treats
// dotless "ı" as "i", so "GALVANİZ", "Galvaniz" and "GALVANIZ" fold alike.
var dotFolder = strings.NewReplacer("\u0307", "", "ı", "i")

// foldText lower-cases s for keyword and name comparison. OCR output often
// arrives decomposed, so it is NFC-normalized first.
// A new Caser is built per call because Casers are not safe for concurrent use.
func foldText(s string) string {
	s = norm.NFC.String(s)
	s = cases.Lower(language.Und).String(s)
	return dotFolder.Replace(s)
}

// foldName is foldText for catalog keys.
func foldName(s string) string {
	return foldText(strings.TrimSpace(s))
}
