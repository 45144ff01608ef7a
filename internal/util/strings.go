// Package util provides small string helpers shared across the codebase.
package util

import "github.com/mattn/go-runewidth"

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// FitWidth pads or truncates s to exactly width terminal cells. Wide
// characters (CJK, emoji) count as two cells; truncation ends in "…".
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
