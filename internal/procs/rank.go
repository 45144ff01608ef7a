package procs

import (
	"math"
	"sort"
	"unicode/utf8"
)

// TruncateCommand shortens cmd to MaxCommandLen runes, replacing the tail
// with "..." so the result is exactly MaxCommandLen long.
func TruncateCommand(cmd string) string {
	if utf8.RuneCountInString(cmd) <= MaxCommandLen {
		return cmd
	}
	runes := []rune(cmd)
	return string(runes[:MaxCommandLen-3]) + "..."
}

// Rank stable-sorts rows by CPUPercent descending and keeps the first
// limit. Equal CPU keeps enumeration order. rows is sorted in place.
func Rank(rows []Row, limit int) []Row {
	if limit <= 0 {
		limit = DefaultLimit
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CPUPercent > rows[j].CPUPercent
	})
	if len(rows) > limit {
		rows = rows[:limit:limit]
	}
	return rows
}

// sanitizePercent maps NaN and negatives to 0.
func sanitizePercent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
