package dashboard

// ============================================================================
// VIEWS — The numeric series behind every widget
// ============================================================================
// Each method reproduces one source pipeline exactly: same join inputs,
// same grouping keys, same ordering rules. Every view degrades gracefully
// on empty input — sums report zero, means report no-data, rankings come
// back empty.
// ============================================================================

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/CharanPatgar/market/dataset"
	"github.com/CharanPatgar/market/engine"
)

// Revenue segmentation policy: [0,100) Low, [100,400) High, [400,∞) Top.
// Left-closed — a seller at exactly 100 is High, not Low.
var (
	revenueEdges  = []float64{0, 100, 400, math.Inf(1)}
	revenueLabels = []string{"Low", "High", "Top"}
)

// Delivery accuracy: day diff delivered−estimated cut on right-closed
// bins (−∞,−1] Before, (−1,0] On Time, (0,∞) After.
var (
	deliveryEdges  = []float64{math.Inf(-1), -1, 0, math.Inf(1)}
	deliveryLabels = []string{"Before", "On Time", "After"}
)

// Overview carries the five headline scalars.
type Overview struct {
	TotalProducts  int     `json:"totalProducts"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalSellers   int     `json:"totalSellers"`
	TotalCustomers int     `json:"totalCustomers"`
	TotalOrders    int     `json:"totalOrders"`
}

// Overview computes the headline scalars from the raw tables. Revenue is
// the sum of item prices; freight is excluded.
func (d *Dashboard) Overview() Overview {
	return Overview{
		TotalProducts:  engine.CountDistinct(d.ds.Products, func(p dataset.Product) string { return p.ID }),
		TotalRevenue:   engine.Sum(d.ds.OrderItems, func(i dataset.OrderItem) float64 { return i.Price }),
		TotalSellers:   engine.CountDistinct(d.ds.Sellers, func(s dataset.Seller) string { return s.ID }),
		TotalCustomers: engine.CountDistinct(d.ds.Customers, func(c dataset.Customer) string { return c.ID }),
		TotalOrders:    engine.CountDistinct(d.ds.Orders, func(o dataset.Order) string { return o.ID }),
	}
}

// TopCategories ranks product categories by summed item price, descending
// with stable ties, truncated to topN.
func (d *Dashboard) TopCategories(topN int) engine.Series {
	return engine.TopK(d.categoryRevenue, topN)
}

// TopCategoriesTitle is the leaderboard heading: "Top N …" while the list
// is truncated, "All …" once topN covers every category.
func (d *Dashboard) TopCategoriesTitle(topN int) string {
	if topN < len(d.categoryRevenue) {
		return fmt.Sprintf("Top %d Product Categories by Revenue", topN)
	}
	return "All Product Categories by Revenue"
}

// RegionRevenue is the per-region line-chart payload.
type RegionRevenue struct {
	Region       string        `json:"region"`
	Categories   engine.Series `json:"categories"`   // alphabetical by category
	TotalRevenue float64       `json:"totalRevenue"` // all items sold from the region
}

// RegionRevenue computes category revenue for items sold by sellers in
// the region. The total is taken over the filtered items before the
// product join, as the source does, so items without a product match
// still count toward it.
func (d *Dashboard) RegionRevenue(region string) RegionRevenue {
	sellerSet := make(map[string]bool)
	for _, s := range d.ds.Sellers {
		if s.State == region {
			sellerSet[s.ID] = true
		}
	}

	items := engine.Filter(d.ds.OrderItems, func(i dataset.OrderItem) bool { return sellerSet[i.SellerID] })
	total := engine.Sum(items, func(i dataset.OrderItem) float64 { return i.Price })

	lines := buildCategoryLines(items, d.ds.Products, d.dc, "region_items_products")
	byCategory := engine.GroupSum(lines,
		func(l CategoryLine) string { return l.Category },
		func(l CategoryLine) float64 { return l.Price })

	return RegionRevenue{
		Region:       region,
		Categories:   engine.SortByLabel(byCategory),
		TotalRevenue: total,
	}
}

// NewCustomersByMonth counts first-seen customers per month over the
// fixed 23-bucket axis. Customers are deduplicated by id in input row
// order, so each contributes exactly one event, attributed to its first
// row's purchase month. Off-axis or unparseable months drop out of the
// view (counted on the diagnostics channel).
func (d *Dashboard) NewCustomersByMonth() engine.Series {
	seen := make(map[string]bool, len(d.ds.Orders))
	keys := make([]string, 0, len(d.ds.Orders))
	for _, o := range d.ds.Orders {
		if seen[o.CustomerID] {
			continue
		}
		seen[o.CustomerID] = true
		keys = append(keys, engine.MonthKey(o.PurchasedAt))
	}

	series, dropped := engine.CountOnAxis(keys)
	d.dc.OffAxis("new_customers", dropped)
	return series
}

// ReviewScoreHistogram counts reviews per score, ascending by score.
func (d *Dashboard) ReviewScoreHistogram() engine.Series {
	counts := engine.GroupCount(d.ds.Reviews, func(r dataset.Review) string {
		return strconv.FormatFloat(r.Score, 'f', -1, 64)
	})
	return engine.SortByNumericLabel(counts)
}

// Distributions holds the four categorical pies.
type Distributions struct {
	PaymentTypes     engine.Series `json:"paymentTypes"`
	DeliveryAccuracy engine.Series `json:"deliveryAccuracy"`
	SellerSegments   engine.Series `json:"sellerSegments"`
	CustomerSegments engine.Series `json:"customerSegments"`
}

func (d *Dashboard) paymentTypeCounts() engine.Series {
	counts := engine.GroupCount(d.ds.Payments, func(p dataset.Payment) string { return p.Type })
	return engine.SortByValueDesc(counts)
}

func (d *Dashboard) deliveryAccuracyCounts() engine.Series {
	diffs := make([]float64, 0, len(d.ds.Orders))
	for _, o := range d.ds.Orders {
		if o.DeliveredAt.IsZero() || o.EstimatedAt.IsZero() {
			continue
		}
		diffs = append(diffs, float64(engine.DayDiff(o.DeliveredAt, o.EstimatedAt)))
	}

	counts, _ := engine.CountBuckets(diffs, deliveryEdges, deliveryLabels, engine.RightClosed)

	// The pie keeps only the interesting slices, as the source does.
	out := make(engine.Series, 0, 2)
	for _, p := range engine.SortByValueDesc(counts) {
		if p.Label == "Before" || p.Label == "After" {
			out = append(out, p)
		}
	}
	return out
}

func (d *Dashboard) sellerSegmentCounts() engine.Series {
	return segmentCounts(engine.GroupSum(d.paymentLines,
		func(pl PaymentLine) string { return pl.SellerID },
		func(pl PaymentLine) float64 { return pl.Value }))
}

func (d *Dashboard) customerSegmentCounts() engine.Series {
	return segmentCounts(engine.GroupSum(d.customerPays,
		func(cp CustomerPaymentLine) string { return cp.CustomerID },
		func(cp CustomerPaymentLine) float64 { return cp.Value }))
}

// segmentCounts buckets per-entity revenue into Low/High/Top and counts
// per label, descending. Negative revenue is excluded before cutting.
func segmentCounts(revenue engine.Series) engine.Series {
	values := make([]float64, 0, len(revenue))
	for _, p := range revenue {
		if p.Value >= 0 {
			values = append(values, p.Value)
		}
	}
	counts, _ := engine.CountBuckets(values, revenueEdges, revenueLabels, engine.LeftClosed)
	return engine.SortByValueDesc(counts)
}

// RankedEntity is a leaderboard row enriched with location dimensions.
type RankedEntity struct {
	ID      string  `json:"id"`
	Revenue float64 `json:"revenue"`
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`
}

// ProductInsights is the per-category drill-down payload.
type ProductInsights struct {
	Category     string         `json:"category"`
	TopRegions   engine.Series  `json:"topRegions"`
	TopSellers   []RankedEntity `json:"topSellers"`
	TopCustomers []RankedEntity `json:"topCustomers"`
	AvgRating    engine.Metric  `json:"avgRating"`
	AvgPrice     engine.Metric  `json:"avgPrice"`
	TotalRevenue float64        `json:"totalRevenue"`
}

// ProductInsights computes the drill-down for one product category:
// top-3 regions by line-item revenue for the category, top-3 sellers and
// customers by overall payment value (the source does not filter these by
// category), and the category's rating/price/revenue metrics.
func (d *Dashboard) ProductInsights(category string) ProductInsights {
	filtered := engine.Filter(d.lineItems, func(li LineItem) bool { return li.Category == category })

	topRegions := engine.TopK(engine.GroupSum(filtered,
		LineItem.Region,
		LineItem.Revenue), 3)

	topSellers := d.rankSellers(3)
	topCustomers := d.rankCustomers(3)

	ratings := engine.Filter(d.reviewLines, func(rl ReviewLine) bool { return rl.Category == category })

	return ProductInsights{
		Category:     category,
		TopRegions:   topRegions,
		TopSellers:   topSellers,
		TopCustomers: topCustomers,
		AvgRating:    engine.Mean(ratings, func(rl ReviewLine) float64 { return rl.Score }),
		AvgPrice:     engine.Mean(filtered, func(li LineItem) float64 { return li.Price }),
		TotalRevenue: engine.Sum(filtered, LineItem.Revenue),
	}
}

func (d *Dashboard) rankSellers(k int) []RankedEntity {
	top := engine.TopK(engine.GroupSum(d.paymentLines,
		func(pl PaymentLine) string { return pl.SellerID },
		func(pl PaymentLine) float64 { return pl.Value }), k)

	out := make([]RankedEntity, 0, len(top))
	for _, p := range top {
		e := RankedEntity{ID: p.Label, Revenue: p.Value}
		if s, ok := d.sellersByID[p.Label]; ok {
			e.City, e.State = s.City, s.State
		}
		out = append(out, e)
	}
	return out
}

func (d *Dashboard) rankCustomers(k int) []RankedEntity {
	top := engine.TopK(engine.GroupSum(d.customerPays,
		func(cp CustomerPaymentLine) string { return cp.CustomerID },
		func(cp CustomerPaymentLine) float64 { return cp.Value }), k)

	out := make([]RankedEntity, 0, len(top))
	for _, p := range top {
		e := RankedEntity{ID: p.Label, Revenue: p.Value}
		if c, ok := d.customersByID[p.Label]; ok {
			e.City, e.State = c.City, c.State
		}
		out = append(out, e)
	}
	return out
}

// Heatmap is the state × year pivot of distinct order counts.
type Heatmap struct {
	States []string `json:"states"` // alphabetical
	Years  []int    `json:"years"`  // ascending
	Counts [][]int  `json:"counts"` // Counts[stateIdx][yearIdx]
}

// StateYearOrders pivots distinct order counts by customer state and
// purchase year, restricted to the top-10 states by order count. Missing
// cells are zero. Orders with an unparseable purchase date fall out of
// the year columns but still count toward the state ranking, as in the
// source.
func (d *Dashboard) StateYearOrders() Heatmap {
	byState := engine.GroupCountDistinct(d.customerOrders,
		func(co CustomerOrder) string { return co.State },
		func(co CustomerOrder) string { return co.OrderID })
	top := engine.TopK(byState, 10)

	keep := make(map[string]bool, len(top))
	states := make([]string, 0, len(top))
	for _, p := range top {
		keep[p.Label] = true
		states = append(states, p.Label)
	}
	sort.Strings(states)

	type stateYear struct {
		state string
		year  int
	}
	distinct := make(map[stateYear]map[string]bool)
	yearSet := make(map[int]bool)
	for _, co := range d.customerOrders {
		if !keep[co.State] || co.Year == 0 {
			continue
		}
		key := stateYear{state: co.State, year: co.Year}
		orders, ok := distinct[key]
		if !ok {
			orders = make(map[string]bool)
			distinct[key] = orders
		}
		orders[co.OrderID] = true
		yearSet[co.Year] = true
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	counts := make([][]int, len(states))
	for i, state := range states {
		counts[i] = make([]int, len(years))
		for j, year := range years {
			counts[i][j] = len(distinct[stateYear{state: state, year: year}])
		}
	}

	return Heatmap{States: states, Years: years, Counts: counts}
}
