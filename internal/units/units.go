// Package units converts raw sampler values into display text and severity
// tiers. Everything here is pure and safe for concurrent use.
package units

import (
	"fmt"
	"math"
	"time"
)

var byteUnits = []string{"B", "K", "M", "G", "T"}

// BytesToHuman formats n with one decimal and a binary unit suffix, dividing
// by 1024 until the value drops below 1024. P is the ceiling unit, so values
// of 1024P and above stay in P.
//
//	BytesToHuman(0)             // "0.0B"
//	BytesToHuman(4_000_000_000) // "3.7G"
func BytesToHuman(n uint64) string {
	v := float64(n)
	for _, u := range byteUnits {
		if v < 1024 {
			return fmt.Sprintf("%.1f%s", v, u)
		}
		v /= 1024
	}
	return fmt.Sprintf("%.1fP", v)
}

// Percent formats a percentage with one decimal, e.g. "42.0%".
func Percent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// Usage renders "used/total (pct%)" the way the memory, swap and disk
// labels show it.
func Usage(used, total uint64, pct float64) string {
	return fmt.Sprintf("%s/%s (%s)", BytesToHuman(used), BytesToHuman(total), Percent(pct))
}

// Interval renders a refresh interval in seconds with one decimal ("1.5s").
func Interval(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// ClampPercent bounds pct to [0, 100]. NaN becomes 0.
func ClampPercent(pct float64) float64 {
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
