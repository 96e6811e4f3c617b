package engine

import "math"

// ============================================================================
// SEGMENTATION ENGINE — Ordered-bin classification
// ============================================================================
// Classifies a numeric value into one of len(edges)-1 ordered intervals.
// Two interval conventions are needed to reproduce the source exactly:
//
//   LeftClosed  [a, b)  — revenue segments: edges [0, 100, 400, +inf),
//                         labels [Low, High, Top]; 100 is High, not Low.
//   RightClosed (a, b]  — delivery accuracy: edges [-inf, -1, 0, +inf],
//                         labels [Before, On Time, After]; a day diff of
//                         -1 is Before, 0 is On Time, 1 is After.
//
// Out-of-range or non-finite input is unclassified (ok=false), never an
// error: unclassified values are simply excluded from counts.
// ============================================================================

// CutMode selects which end of each interval is closed.
type CutMode int

const (
	// LeftClosed buckets are [edge[i], edge[i+1]).
	LeftClosed CutMode = iota
	// RightClosed buckets are (edge[i], edge[i+1]].
	RightClosed
)

// Cut classifies v into one of the intervals described by edges, which
// must be strictly increasing and may start or end at ±Inf. labels must
// have exactly len(edges)-1 entries; a mismatch leaves v unclassified.
func Cut(v float64, edges []float64, labels []string, mode CutMode) (string, bool) {
	if math.IsNaN(v) || len(edges) < 2 || len(labels) != len(edges)-1 {
		return "", false
	}

	for i := 0; i < len(labels); i++ {
		lo, hi := edges[i], edges[i+1]
		switch mode {
		case RightClosed:
			if v > lo && v <= hi {
				return labels[i], true
			}
		default:
			if v >= lo && v < hi {
				return labels[i], true
			}
		}
	}
	return "", false
}

// CountBuckets classifies every value and counts per label, in label
// order. Unclassified values are excluded; the second return reports how
// many were.
func CountBuckets(values []float64, edges []float64, labels []string, mode CutMode) (Series, int) {
	counts := make(map[string]float64, len(labels))
	unclassified := 0
	for _, v := range values {
		label, ok := Cut(v, edges, labels, mode)
		if !ok {
			unclassified++
			continue
		}
		counts[label]++
	}

	s := make(Series, 0, len(labels))
	for _, label := range labels {
		s = append(s, Point{Label: label, Value: counts[label]})
	}
	return s, unclassified
}
