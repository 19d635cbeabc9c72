package format

import (
	"fmt"
	"time"
)

// Duration formats a duration as HH:MM:SS or MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// CPS formats a reading speed with one decimal, e.g. "21.4".
func CPS(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Count formats a count with its noun.
// Examples: Count(1, "entry", "entries") = "1 entry", Count(3, ...) = "3 entries".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
