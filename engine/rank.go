package engine

import (
	"sort"
	"strconv"
)

// ============================================================================
// RANKING — Top-K selection with stable ties
// ============================================================================

// TopK returns the k highest-value points, sorted descending. Ties keep
// their input order (stable sort — the source pipelines depend on it).
// k is clamped to the available length; k <= 0 yields an empty series.
func TopK(s Series, k int) Series {
	if k <= 0 || len(s) == 0 {
		return Series{}
	}

	ranked := SortByValueDesc(s)
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// SortByValueDesc returns a copy sorted by value descending, ties stable.
func SortByValueDesc(s Series) Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

// SortByLabel returns a copy sorted by label ascending.
func SortByLabel(s Series) Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// SortByNumericLabel returns a copy sorted by the numeric value of the
// label ascending (review scores: "1" … "5"). Non-numeric labels sort
// after numeric ones, keeping their relative order.
func SortByNumericLabel(s Series) Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		vi, oki := parseNumericLabel(out[i].Label)
		vj, okj := parseNumericLabel(out[j].Label)
		if oki != okj {
			return oki
		}
		return vi < vj
	})
	return out
}

func parseNumericLabel(label string) (float64, bool) {
	v, err := strconv.ParseFloat(label, 64)
	return v, err == nil
}
