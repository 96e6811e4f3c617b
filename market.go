// Package market provides the data-aggregation core behind an e-commerce
// marketing-analysis dashboard.
//
// Usage:
//
//	import (
//	    "github.com/CharanPatgar/market/dashboard"
//	    "github.com/CharanPatgar/market/dataset"
//	)
//
//	ds, err := dataset.Load("./data")
//	dash := dashboard.New(ds)
//	snap, err := dash.ComputeSnapshot(ctx, dashboard.Filters{TopN: 10})
//
// The dataset package loads the eight fixed CSV extracts into typed
// in-memory relations. The dashboard package joins them and computes the
// plain (label, value) series each widget consumes — leaderboards,
// distributions, the monthly new-customer trend, per-product insights and
// the state-by-year order heatmap.
//
// Rendering is handled separately by whichever charting layer the consumer
// uses. This module never draws anything — all computation is local and
// side-effect free.
package market
