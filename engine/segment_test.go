package engine

import (
	"math"
	"testing"
)

var (
	revenueEdges  = []float64{0, 100, 400, math.Inf(1)}
	revenueLabels = []string{"Low", "High", "Top"}

	deliveryEdges  = []float64{math.Inf(-1), -1, 0, math.Inf(1)}
	deliveryLabels = []string{"Before", "On Time", "After"}
)

func TestCutLeftClosedRevenueSegments(t *testing.T) {
	cases := []struct {
		value float64
		want  string
		ok    bool
	}{
		{0, "Low", true},
		{99.99, "Low", true},
		{100, "High", true}, // boundary belongs to the upper bucket
		{399.99, "High", true},
		{400, "Top", true},
		{1e9, "Top", true},
		{-1, "", false},   // below range: unclassified, never an error
		{-0.01, "", false},
	}

	for _, c := range cases {
		got, ok := Cut(c.value, revenueEdges, revenueLabels, LeftClosed)
		if got != c.want || ok != c.ok {
			t.Errorf("Cut(%v) = %q,%v; want %q,%v", c.value, got, ok, c.want, c.ok)
		}
	}
}

func TestCutRightClosedDeliveryAccuracy(t *testing.T) {
	cases := []struct {
		days float64
		want string
	}{
		{-30, "Before"},
		{-1, "Before"}, // right-closed: -1 belongs to (-inf,-1]
		{0, "On Time"},
		{1, "After"},
		{45, "After"},
	}

	for _, c := range cases {
		got, ok := Cut(c.days, deliveryEdges, deliveryLabels, RightClosed)
		if !ok || got != c.want {
			t.Errorf("Cut(%v) = %q,%v; want %q", c.days, got, ok, c.want)
		}
	}
}

func TestCutTotalOverFiniteInput(t *testing.T) {
	// Every finite value >= 0 classifies into exactly one revenue bucket.
	for _, v := range []float64{0, 0.5, 1, 99, 100, 101, 399, 400, 401, 1e12} {
		if _, ok := Cut(v, revenueEdges, revenueLabels, LeftClosed); !ok {
			t.Errorf("value %v should classify", v)
		}
	}
}

func TestCutRejectsBadInput(t *testing.T) {
	if _, ok := Cut(math.NaN(), revenueEdges, revenueLabels, LeftClosed); ok {
		t.Error("NaN must be unclassified")
	}
	if _, ok := Cut(10, revenueEdges, []string{"only", "two"}, LeftClosed); ok {
		t.Error("label/edge mismatch must leave input unclassified")
	}
	if _, ok := Cut(10, []float64{0}, nil, LeftClosed); ok {
		t.Error("degenerate edges must leave input unclassified")
	}
}

func TestCountBuckets(t *testing.T) {
	values := []float64{50, 100, 250, 400, 900, -5}
	counts, unclassified := CountBuckets(values, revenueEdges, revenueLabels, LeftClosed)

	if unclassified != 1 {
		t.Errorf("expected 1 unclassified, got %d", unclassified)
	}
	want := Series{{Label: "Low", Value: 1}, {Label: "High", Value: 2}, {Label: "Top", Value: 2}}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("bucket %d: want %v, got %v", i, want[i], counts[i])
		}
	}
}

func TestCountBucketsEmptyInput(t *testing.T) {
	counts, unclassified := CountBuckets(nil, revenueEdges, revenueLabels, LeftClosed)
	if unclassified != 0 {
		t.Errorf("expected 0 unclassified, got %d", unclassified)
	}
	// All labels present with zero counts.
	if len(counts) != 3 || counts.Total() != 0 {
		t.Errorf("expected 3 zero buckets, got %v", counts)
	}
}
