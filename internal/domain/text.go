package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims surrounding whitespace and applies NFC so that visually
// identical names and justifications compare and measure the same.
func NormalizeText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// TextLength counts the runes of s after normalization.
func TextLength(s string) int {
	return len([]rune(NormalizeText(s)))
}
