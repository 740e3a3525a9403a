// Package format renders report numbers for the console. Aggregation code
// hands over raw values; only this package decides how they look.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Count renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func Count(n int64) string {
	return humanize.Comma(n)
}

// Percent renders p with two decimals and a percent sign, e.g. "70.00%".
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// Share renders a count followed by its parenthesised percentage,
// e.g. "700,000 (70.00%)".
func Share(n int64, p float64) string {
	return Count(n) + " (" + Percent(p) + ")"
}

// Date renders the calendar date part of a ride date.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}
