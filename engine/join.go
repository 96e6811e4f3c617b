package engine

// ============================================================================
// JOIN ENGINE — Inner joins over typed relations
// ============================================================================
// Hash join: index the right side once, probe per left row. Rows without a
// match on either side are dropped silently — that is the load-bearing
// behavior of the source pipelines, not an oversight. The dropped-left
// count is returned so callers can feed the diagnostics channel.
// ============================================================================

// InnerJoin matches left rows to right rows on equal, non-empty keys and
// emits one combined row per matching pair (a duplicated right key yields
// one output row per duplicate, as an SQL inner join would).
//
// An empty key never matches anything: a null key on either side drops the
// row, mirroring NaN-key merge semantics in the source.
//
// Returns the joined rows and the number of left rows dropped for lack of
// a match.
func InnerJoin[L, R, O any](
	left []L,
	right []R,
	leftKey func(L) string,
	rightKey func(R) string,
	combine func(L, R) O,
) ([]O, int) {
	index := make(map[string][]int, len(right))
	for i, r := range right {
		k := rightKey(r)
		if k == "" {
			continue
		}
		index[k] = append(index[k], i)
	}

	out := make([]O, 0, len(left))
	dropped := 0
	for _, l := range left {
		k := leftKey(l)
		matches := index[k]
		if k == "" || len(matches) == 0 {
			dropped++
			continue
		}
		for _, ri := range matches {
			out = append(out, combine(l, right[ri]))
		}
	}
	return out, dropped
}

// IndexFirst builds a key → row lookup keeping the first row per key.
// Used for dimension enrichment after ranking (a left-join by hand).
func IndexFirst[T any](rows []T, key func(T) string) map[string]T {
	index := make(map[string]T, len(rows))
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, seen := index[k]; !seen {
			index[k] = r
		}
	}
	return index
}

// Filter returns the rows for which keep is true, preserving order.
func Filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
