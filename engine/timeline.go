package engine

import (
	"fmt"
	"math"
	"time"
)

// ============================================================================
// TIME-BUCKETING ENGINE — Fixed chronological axis
// ============================================================================
// Timestamps collapse to "YYYY-M" keys (no zero padding on the month) and
// are counted against a fixed 23-entry axis spanning 2016-9 … 2018-8.
// A key absent from the axis is dropped from the chronological view; the
// drop count is reported so the diagnostics channel can surface it.
// ============================================================================

// MonthAxis is the fixed chronological category axis. 2016-11 is absent:
// the snapshot has no observations there and the axis reproduces the
// source's ordering verbatim.
var MonthAxis = []string{
	"2016-9", "2016-10", "2016-12",
	"2017-1", "2017-2", "2017-3", "2017-4", "2017-5", "2017-6",
	"2017-7", "2017-8", "2017-9", "2017-10", "2017-11", "2017-12",
	"2018-1", "2018-2", "2018-3", "2018-4", "2018-5", "2018-6",
	"2018-7", "2018-8",
}

// MonthKey renders t as the axis key format, e.g. "2016-9".
// The zero time has no key.
func MonthKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

// Timestamp layouts accepted by the extracts, most specific first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a raw timestamp cell. Malformed values coerce to
// the zero time with ok=false — they are excluded from date-dependent
// aggregates, never fatal.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CountOnAxis counts occurrences of each key onto the full fixed axis.
// Every axis bucket appears in the result, zeros included. Keys not on
// the axis (including the empty key of an unparseable timestamp) are
// dropped; the second return reports how many.
func CountOnAxis(keys []string) (Series, int) {
	position := make(map[string]int, len(MonthAxis))
	for i, k := range MonthAxis {
		position[k] = i
	}

	counts := make([]float64, len(MonthAxis))
	dropped := 0
	for _, k := range keys {
		i, ok := position[k]
		if !ok {
			dropped++
			continue
		}
		counts[i]++
	}

	s := make(Series, len(MonthAxis))
	for i, k := range MonthAxis {
		s[i] = Point{Label: k, Value: counts[i]}
	}
	return s, dropped
}

// DayDiff is the signed whole-day difference a−b, floored toward negative
// infinity (a delivery 36 hours early is -2 days, matching the source's
// timedelta semantics).
func DayDiff(a, b time.Time) int {
	return int(math.Floor(a.Sub(b).Hours() / 24))
}
