// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatCount formats a case count with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatCount(n int64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatRate formats a rate per 100k population.
func FormatRate(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", rate)
}

// FormatHDI formats a Human Development Index value.
func FormatHDI(hdi float64) string {
	return fmt.Sprintf("%.3f", hdi)
}

// FormatUSD formats a dollar amount, rounding to whole dollars from 100 up.
func FormatUSD(v float64) string {
	if v >= 100 || v <= -100 {
		return "$" + humanize.Comma(int64(math.Round(v)))
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatShare formats part as a percentage of total; a zero total is "0.0%".
func FormatShare(part, total int64) string {
	if total == 0 {
		return FormatPercent(0)
	}
	return FormatPercent(float64(part) / float64(total))
}

// FormatYearRange formats an inclusive year span, e.g. "1985-2016".
func FormatYearRange(first, last int) string {
	switch {
	case first == 0 && last == 0:
		return "-"
	case first == last:
		return strconv.Itoa(first)
	default:
		return fmt.Sprintf("%d-%d", first, last)
	}
}
