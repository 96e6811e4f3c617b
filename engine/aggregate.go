package engine

// ============================================================================
// AGGREGATION ENGINE — Group-by with first-seen order
// ============================================================================
// Grouping key equality is exact string match. Group order is the order in
// which keys first appear in the input; sorting is a separate, explicit
// step (rank.go). Empty group keys are retained as their own group — an
// inner join upstream is the only thing that removes null keys.
// ============================================================================

// GroupSum groups rows by key and sums value per group.
func GroupSum[T any](rows []T, key func(T) string, value func(T) float64) Series {
	sums := make(map[string]float64)
	order := make([]string, 0)

	for _, r := range rows {
		k := key(r)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += value(r)
	}

	s := make(Series, 0, len(order))
	for _, k := range order {
		s = append(s, Point{Label: k, Value: sums[k]})
	}
	return s
}

// GroupCount groups rows by key and counts rows per group.
func GroupCount[T any](rows []T, key func(T) string) Series {
	return GroupSum(rows, key, func(T) float64 { return 1 })
}

// GroupCountDistinct groups rows by key and counts distinct ids per group.
func GroupCountDistinct[T any](rows []T, key func(T) string, id func(T) string) Series {
	seen := make(map[string]map[string]bool)
	order := make([]string, 0)

	for _, r := range rows {
		k := key(r)
		ids, ok := seen[k]
		if !ok {
			ids = make(map[string]bool)
			seen[k] = ids
			order = append(order, k)
		}
		ids[id(r)] = true
	}

	s := make(Series, 0, len(order))
	for _, k := range order {
		s = append(s, Point{Label: k, Value: float64(len(seen[k]))})
	}
	return s
}

// Sum totals value across all rows. Zero rows sum to zero.
func Sum[T any](rows []T, value func(T) float64) float64 {
	var total float64
	for _, r := range rows {
		total += value(r)
	}
	return total
}

// Mean averages value across all rows. Zero rows yield NoData, never NaN.
func Mean[T any](rows []T, value func(T) float64) Metric {
	if len(rows) == 0 {
		return NoData
	}
	return Metric{Value: Sum(rows, value) / float64(len(rows)), Valid: true}
}

// CountDistinct counts distinct non-empty ids across all rows.
func CountDistinct[T any](rows []T, id func(T) string) int {
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		k := id(r)
		if k != "" {
			seen[k] = true
		}
	}
	return len(seen)
}

// DistinctInOrder returns the distinct non-empty values of key in the
// order they first appear. This is what filter option lists are built
// from, so "first in source order" defaults fall out of it.
func DistinctInOrder[T any](rows []T, key func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		k := key(r)
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
