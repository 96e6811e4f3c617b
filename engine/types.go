package engine

// ============================================================================
// ENGINE TYPES — Plain series at the presentation boundary
// ============================================================================
// Every aggregate the dashboard exposes is a Series: an ordered list of
// (label, value) points ready for whatever charting layer the consumer
// uses. The engine never renders anything.
// ============================================================================

// Point is a single (label, value) pair in a data series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of points. Order is meaningful: grouping
// preserves first-seen order until a sort is applied explicitly.
type Series []Point

// Total sums all point values.
func (s Series) Total() float64 {
	var total float64
	for _, p := range s {
		total += p.Value
	}
	return total
}

// Labels returns the point labels in series order.
func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

// Get returns the value for a label and whether it is present.
func (s Series) Get(label string) (float64, bool) {
	for _, p := range s {
		if p.Label == label {
			return p.Value, true
		}
	}
	return 0, false
}

// Metric is a scalar that may be undefined. A mean over zero rows is not a
// number to render — it is "no data", and the presentation layer needs to
// tell the two apart.
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// NoData is the undefined metric.
var NoData = Metric{}
