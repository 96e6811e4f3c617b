package dashboard

// ============================================================================
// DASHBOARD — Filter model and session orchestration
// ============================================================================
// A Dashboard wraps one immutable Dataset, precomputes the joined line
// items once, and answers every widget query as a pure function of those
// tables plus the current filter selection. Nothing here writes upstream;
// a filter change just recomputes from the same in-memory relations.
// ============================================================================

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/CharanPatgar/market/dataset"
	"github.com/CharanPatgar/market/diag"
	"github.com/CharanPatgar/market/engine"
)

// Bounds for the leaderboard length control.
const (
	TopNMin     = 1
	TopNMax     = 71
	TopNDefault = 10
)

// Filters are the three user-selected values the UI supplies.
type Filters struct {
	TopN     int    `json:"topN"`     // leaderboard length, [1,71]
	Region   string `json:"region"`   // a seller_state value
	Category string `json:"category"` // a product_category_name value
}

// Dashboard computes every widget series for one loaded dataset.
type Dashboard struct {
	ds *dataset.Dataset
	dc *diag.Collector

	lineItems       []LineItem
	categoryLines   []CategoryLine
	categoryRevenue engine.Series
	paymentLines    []PaymentLine
	customerPays    []CustomerPaymentLine
	reviewLines     []ReviewLine
	customerOrders  []CustomerOrder

	regions    []string
	categories []string

	sellersByID   map[string]dataset.Seller
	customersByID map[string]dataset.Customer
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithDiagnostics attaches a collector that receives dropped-row counts
// from the join stages and chronological views.
func WithDiagnostics(c *diag.Collector) Option {
	return func(d *Dashboard) { d.dc = c }
}

// New builds a Dashboard over ds, computing the join families up front.
// ds must not be mutated afterwards.
func New(ds *dataset.Dataset, opts ...Option) *Dashboard {
	d := &Dashboard{ds: ds}
	for _, opt := range opts {
		opt(d)
	}

	d.lineItems = buildLineItems(ds, d.dc)
	d.categoryLines = buildCategoryLines(ds.OrderItems, ds.Products, d.dc, "order_items_products")
	d.categoryRevenue = engine.GroupSum(d.categoryLines,
		func(l CategoryLine) string { return l.Category },
		func(l CategoryLine) float64 { return l.Price })
	d.paymentLines = buildPaymentLines(ds, d.dc)
	d.customerPays = buildCustomerPaymentLines(d.paymentLines, ds, d.dc)
	d.reviewLines = buildReviewLines(ds, d.dc)
	d.customerOrders = buildCustomerOrders(ds, d.dc)

	d.regions = engine.DistinctInOrder(ds.Sellers, func(s dataset.Seller) string { return s.State })
	d.categories = engine.DistinctInOrder(d.lineItems, func(li LineItem) string { return li.Category })

	d.sellersByID = engine.IndexFirst(ds.Sellers, func(s dataset.Seller) string { return s.ID })
	d.customersByID = engine.IndexFirst(ds.Customers, func(c dataset.Customer) string { return c.ID })

	log.Printf("🔧 market: dashboard ready — %d line items, %d payment lines, %d regions, %d categories",
		len(d.lineItems), len(d.paymentLines), len(d.regions), len(d.categories))

	return d
}

// Regions lists the distinct seller states in source order. The first
// entry is the default region selection.
func (d *Dashboard) Regions() []string { return d.regions }

// Categories lists the distinct non-null product categories in joined row
// order. The first entry is the default category selection.
func (d *Dashboard) Categories() []string { return d.categories }

// Normalize clamps and defaults a filter selection: TopN into [1,71]
// (zero means default), empty region/category to the first option.
func (d *Dashboard) Normalize(f Filters) Filters {
	if f.TopN == 0 {
		f.TopN = TopNDefault
	}
	if f.TopN < TopNMin {
		f.TopN = TopNMin
	}
	if f.TopN > TopNMax {
		f.TopN = TopNMax
	}
	if f.Region == "" && len(d.regions) > 0 {
		f.Region = d.regions[0]
	}
	if f.Category == "" && len(d.categories) > 0 {
		f.Category = d.categories[0]
	}
	return f
}

// Snapshot is the complete presentation-boundary payload for one filter
// selection.
type Snapshot struct {
	Filters            Filters           `json:"filters"`
	Overview           Overview          `json:"overview"`
	TopCategories      engine.Series     `json:"topCategories"`
	TopCategoriesTitle string            `json:"topCategoriesTitle"`
	Region             RegionRevenue     `json:"region"`
	NewCustomers       engine.Series     `json:"newCustomers"`
	ReviewScores       engine.Series     `json:"reviewScores"`
	Distributions      Distributions     `json:"distributions"`
	Product            ProductInsights   `json:"product"`
	StateYearOrders    Heatmap           `json:"stateYearOrders"`
}

// ComputeSnapshot runs the whole pipeline for one filter selection. The
// context cancels the distribution fan-out; a stale selection's
// computation is discarded, never merged.
func (d *Dashboard) ComputeSnapshot(ctx context.Context, f Filters) (*Snapshot, error) {
	f = d.Normalize(f)

	dist, err := d.Distributions(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Filters:            f,
		Overview:           d.Overview(),
		TopCategories:      d.TopCategories(f.TopN),
		TopCategoriesTitle: d.TopCategoriesTitle(f.TopN),
		Region:             d.RegionRevenue(f.Region),
		NewCustomers:       d.NewCustomersByMonth(),
		ReviewScores:       d.ReviewScoreHistogram(),
		Distributions:      *dist,
		Product:            d.ProductInsights(f.Category),
		StateYearOrders:    d.StateYearOrders(),
	}, nil
}

// Distributions computes the four categorical pies concurrently. Each
// goroutine only reads the shared immutable tables and writes its own
// field, so no locking is needed.
func (d *Dashboard) Distributions(ctx context.Context) (*Distributions, error) {
	var out Distributions
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.PaymentTypes = d.paymentTypeCounts()
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.DeliveryAccuracy = d.deliveryAccuracyCounts()
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.SellerSegments = d.sellerSegmentCounts()
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.CustomerSegments = d.customerSegmentCounts()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
