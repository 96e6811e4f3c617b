package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/CharanPatgar/market/dataset"
	"github.com/CharanPatgar/market/diag"
	"github.com/CharanPatgar/market/engine"
)

func ts(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// fixtureDataset covers every widget path: a repeat customer, a null
// product category, an orphan order item, a multi-item order and all
// three delivery outcomes.
func fixtureDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Orders: []dataset.Order{
			{ID: "o1", CustomerID: "c1", Status: "delivered",
				PurchasedAt: ts(2016, time.September, 4),
				DeliveredAt: ts(2016, time.September, 10),
				EstimatedAt: ts(2016, time.September, 12)},
			{ID: "o2", CustomerID: "c2", Status: "delivered",
				PurchasedAt: ts(2016, time.October, 5),
				DeliveredAt: ts(2016, time.October, 10),
				EstimatedAt: ts(2016, time.October, 10)},
			{ID: "o3", CustomerID: "c3", Status: "delivered",
				PurchasedAt: ts(2017, time.January, 15),
				DeliveredAt: ts(2017, time.January, 20),
				EstimatedAt: ts(2017, time.January, 18)},
			// c1's second order; never delivered.
			{ID: "o4", CustomerID: "c1", Status: "shipped",
				PurchasedAt: ts(2017, time.February, 1),
				EstimatedAt: ts(2017, time.February, 10)},
		},
		OrderItems: []dataset.OrderItem{
			{OrderID: "o1", ItemSeq: "1", ProductID: "p1", SellerID: "s1", Price: 50, Freight: 8},
			{OrderID: "o1", ItemSeq: "2", ProductID: "p2", SellerID: "s1", Price: 30, Freight: 4},
			{OrderID: "o2", ItemSeq: "1", ProductID: "p1", SellerID: "s2", Price: 120, Freight: 12},
			{OrderID: "o3", ItemSeq: "1", ProductID: "p3", SellerID: "s3", Price: 70, Freight: 6},
			// Orphan: o9 is not in the orders table.
			{OrderID: "o9", ItemSeq: "1", ProductID: "p1", SellerID: "s1", Price: 999, Freight: 1},
		},
		Customers: []dataset.Customer{
			{ID: "c1", City: "sao paulo", State: "SP"},
			{ID: "c2", City: "rio de janeiro", State: "RJ"},
			{ID: "c3", City: "belo horizonte", State: "MG"},
		},
		Products: []dataset.Product{
			{ID: "p1", Category: "toys"},
			{ID: "p2", Category: "books"},
			{ID: "p3", Category: ""},
		},
		Sellers: []dataset.Seller{
			{ID: "s1", City: "campinas", State: "SP"},
			{ID: "s2", City: "niteroi", State: "RJ"},
			{ID: "s3", City: "santos", State: "SP"},
		},
		Payments: []dataset.Payment{
			{OrderID: "o1", Seq: "1", Type: "credit_card", Value: 80},
			{OrderID: "o2", Seq: "1", Type: "boleto", Value: 120},
			{OrderID: "o3", Seq: "1", Type: "credit_card", Value: 70},
		},
		Reviews: []dataset.Review{
			{ID: "r1", OrderID: "o1", Score: 5},
			{ID: "r2", OrderID: "o2", Score: 4},
			{ID: "r3", OrderID: "o3", Score: 4},
		},
	}
}

func TestOverview(t *testing.T) {
	d := New(fixtureDataset())
	got := d.Overview()

	if got.TotalProducts != 3 || got.TotalSellers != 3 || got.TotalCustomers != 3 || got.TotalOrders != 4 {
		t.Errorf("unexpected entity counts: %+v", got)
	}
	// Revenue sums every item price, orphans included; freight stays out.
	if got.TotalRevenue != 1269 {
		t.Errorf("expected revenue 1269, got %v", got.TotalRevenue)
	}
}

func TestTopCategories(t *testing.T) {
	d := New(fixtureDataset())

	got := d.TopCategories(2)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	// The orphan item still joins to its product, so toys leads.
	if got[0].Label != "toys" || got[0].Value != 1169 {
		t.Errorf("expected toys at 1169, got %+v", got[0])
	}
	if got[1].Label != "" || got[1].Value != 70 {
		t.Errorf("null category ranks second at 70, got %+v", got[1])
	}

	// The full leaderboard conserves total revenue.
	if total := d.TopCategories(TopNMax).Total(); total != 1269 {
		t.Errorf("leaderboard total should match revenue, got %v", total)
	}
}

func TestTopCategoriesTitle(t *testing.T) {
	d := New(fixtureDataset())
	if got := d.TopCategoriesTitle(2); got != "Top 2 Product Categories by Revenue" {
		t.Errorf("truncated title wrong: %q", got)
	}
	if got := d.TopCategoriesTitle(3); got != "All Product Categories by Revenue" {
		t.Errorf("full title wrong: %q", got)
	}
}

func TestRegionRevenue(t *testing.T) {
	d := New(fixtureDataset())
	got := d.RegionRevenue("SP")

	// s1 and s3 sell from SP: items at 50, 30, 70 and the 999 orphan.
	// The total counts all of them, product match or not.
	if got.TotalRevenue != 1149 {
		t.Errorf("expected regional total 1149, got %v", got.TotalRevenue)
	}

	if len(got.Categories) != 3 {
		t.Fatalf("expected 3 categories, got %v", got.Categories)
	}
	// Alphabetical, with the null category sorting first.
	if got.Categories[0].Label != "" || got.Categories[0].Value != 70 {
		t.Errorf("unexpected first category: %+v", got.Categories[0])
	}
	if got.Categories[1].Label != "books" || got.Categories[1].Value != 30 {
		t.Errorf("unexpected second category: %+v", got.Categories[1])
	}
	if got.Categories[2].Label != "toys" || got.Categories[2].Value != 1049 {
		t.Errorf("unexpected third category: %+v", got.Categories[2])
	}
}

func TestNewCustomersByMonth(t *testing.T) {
	d := New(fixtureDataset())
	got := d.NewCustomersByMonth()

	if got.Total() != 3 {
		t.Errorf("three distinct customers, got total %v", got.Total())
	}
	// c1 is attributed to its first order's month only; o4 adds nothing.
	if v, _ := got.Get("2016-9"); v != 1 {
		t.Errorf("expected 1 new customer in 2016-9, got %v", v)
	}
	if v, _ := got.Get("2017-2"); v != 0 {
		t.Errorf("repeat order must not count, got %v", v)
	}
}

func TestReviewScoreHistogram(t *testing.T) {
	d := New(fixtureDataset())
	got := d.ReviewScoreHistogram()

	if len(got) != 2 {
		t.Fatalf("expected 2 score buckets, got %v", got)
	}
	if got[0].Label != "4" || got[0].Value != 2 {
		t.Errorf("unexpected first bucket: %+v", got[0])
	}
	if got[1].Label != "5" || got[1].Value != 1 {
		t.Errorf("unexpected second bucket: %+v", got[1])
	}
}

func TestDistributions(t *testing.T) {
	d := New(fixtureDataset())
	dist, err := d.Distributions(context.Background())
	if err != nil {
		t.Fatalf("Distributions failed: %v", err)
	}

	if v, _ := dist.PaymentTypes.Get("credit_card"); v != 2 {
		t.Errorf("expected 2 credit_card payments, got %v", v)
	}
	if v, _ := dist.PaymentTypes.Get("boleto"); v != 1 {
		t.Errorf("expected 1 boleto payment, got %v", v)
	}

	// o1 early, o2 exact, o3 late, o4 undelivered. The pie keeps only
	// the early and late slices.
	if len(dist.DeliveryAccuracy) != 2 {
		t.Fatalf("delivery pie keeps Before and After only, got %v", dist.DeliveryAccuracy)
	}
	if v, _ := dist.DeliveryAccuracy.Get("Before"); v != 1 {
		t.Errorf("expected 1 early delivery, got %v", v)
	}
	if v, _ := dist.DeliveryAccuracy.Get("After"); v != 1 {
		t.Errorf("expected 1 late delivery, got %v", v)
	}
	if _, ok := dist.DeliveryAccuracy.Get("On Time"); ok {
		t.Error("On Time must not appear in the pie")
	}

	// Seller payment revenue: s1 160 (two items on o1), s2 120, s3 70.
	// The orphan item has no payment and segments nothing.
	if v, _ := dist.SellerSegments.Get("High"); v != 2 {
		t.Errorf("expected 2 High sellers, got %v", v)
	}
	if v, _ := dist.SellerSegments.Get("Low"); v != 1 {
		t.Errorf("expected 1 Low seller, got %v", v)
	}
	if v, _ := dist.SellerSegments.Get("Top"); v != 0 {
		t.Errorf("empty segment still appears at zero, got %v", v)
	}

	// Customer payment revenue mirrors the sellers here: c1 160, c2 120, c3 70.
	if v, _ := dist.CustomerSegments.Get("High"); v != 2 {
		t.Errorf("expected 2 High customers, got %v", v)
	}
	if v, _ := dist.CustomerSegments.Get("Low"); v != 1 {
		t.Errorf("expected 1 Low customer, got %v", v)
	}
}

func TestDistributionsTiesKeepInsertionOrder(t *testing.T) {
	ds := &dataset.Dataset{
		Payments: []dataset.Payment{
			{OrderID: "oa", Type: "pix", Value: 10},
			{OrderID: "ob", Type: "voucher", Value: 10},
			{OrderID: "oc", Type: "pix", Value: 10},
			{OrderID: "od", Type: "voucher", Value: 10},
		},
	}
	d := New(ds)
	dist, err := d.Distributions(context.Background())
	if err != nil {
		t.Fatalf("Distributions failed: %v", err)
	}
	if dist.PaymentTypes[0].Label != "pix" || dist.PaymentTypes[1].Label != "voucher" {
		t.Errorf("tied counts must keep first-seen order: %v", dist.PaymentTypes)
	}
}

func TestDistributionsHonorsCancellation(t *testing.T) {
	d := New(fixtureDataset())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Distributions(ctx); err == nil {
		t.Error("cancelled context should abort the fan-out")
	}
}

func TestProductInsights(t *testing.T) {
	d := New(fixtureDataset())
	got := d.ProductInsights("toys")

	// Fully joined toy items: 120 to RJ (c2), 50 to SP (c1). The orphan
	// never reaches the line items.
	if len(got.TopRegions) != 2 {
		t.Fatalf("expected 2 regions, got %v", got.TopRegions)
	}
	if got.TopRegions[0].Label != "RJ" || got.TopRegions[0].Value != 120 {
		t.Errorf("unexpected top region: %+v", got.TopRegions[0])
	}
	if got.TopRegions[1].Label != "SP" || got.TopRegions[1].Value != 50 {
		t.Errorf("unexpected second region: %+v", got.TopRegions[1])
	}

	// Sellers and customers rank on overall payment value, not just toys.
	if len(got.TopSellers) != 3 || got.TopSellers[0].ID != "s1" || got.TopSellers[0].Revenue != 160 {
		t.Errorf("unexpected top sellers: %+v", got.TopSellers)
	}
	if got.TopSellers[0].City != "campinas" || got.TopSellers[0].State != "SP" {
		t.Errorf("top seller should carry location: %+v", got.TopSellers[0])
	}
	if len(got.TopCustomers) != 3 || got.TopCustomers[0].ID != "c1" || got.TopCustomers[0].Revenue != 160 {
		t.Errorf("unexpected top customers: %+v", got.TopCustomers)
	}

	if !got.AvgRating.Valid || got.AvgRating.Value != 4.5 {
		t.Errorf("expected avg rating 4.5, got %+v", got.AvgRating)
	}
	if !got.AvgPrice.Valid || got.AvgPrice.Value != 85 {
		t.Errorf("expected avg price 85, got %+v", got.AvgPrice)
	}
	if got.TotalRevenue != 170 {
		t.Errorf("expected revenue 170, got %v", got.TotalRevenue)
	}
}

func TestProductInsightsUnknownCategory(t *testing.T) {
	d := New(fixtureDataset())
	got := d.ProductInsights("furniture")

	if len(got.TopRegions) != 0 {
		t.Errorf("unknown category has no regions: %v", got.TopRegions)
	}
	if got.AvgRating.Valid || got.AvgPrice.Valid {
		t.Errorf("means over nothing report no data: %+v", got)
	}
	if got.TotalRevenue != 0 {
		t.Errorf("expected zero revenue, got %v", got.TotalRevenue)
	}
}

func TestStateYearOrders(t *testing.T) {
	d := New(fixtureDataset())
	got := d.StateYearOrders()

	wantStates := []string{"MG", "RJ", "SP"}
	if len(got.States) != len(wantStates) {
		t.Fatalf("expected states %v, got %v", wantStates, got.States)
	}
	for i, s := range wantStates {
		if got.States[i] != s {
			t.Fatalf("states must be alphabetical: %v", got.States)
		}
	}
	if len(got.Years) != 2 || got.Years[0] != 2016 || got.Years[1] != 2017 {
		t.Fatalf("expected years [2016 2017], got %v", got.Years)
	}

	want := [][]int{
		{0, 1}, // MG: o3
		{1, 0}, // RJ: o2
		{1, 1}, // SP: o1, o4
	}
	for i := range want {
		for j := range want[i] {
			if got.Counts[i][j] != want[i][j] {
				t.Errorf("count[%s][%d] = %d, want %d",
					got.States[i], got.Years[j], got.Counts[i][j], want[i][j])
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	d := New(fixtureDataset())

	got := d.Normalize(Filters{})
	if got.TopN != TopNDefault {
		t.Errorf("zero TopN should default to %d, got %d", TopNDefault, got.TopN)
	}
	if got.Region != "SP" {
		t.Errorf("empty region should default to first seller state, got %q", got.Region)
	}
	if got.Category != "toys" {
		t.Errorf("empty category should default to first joined category, got %q", got.Category)
	}

	if got := d.Normalize(Filters{TopN: 100}); got.TopN != TopNMax {
		t.Errorf("TopN should clamp to %d, got %d", TopNMax, got.TopN)
	}
	if got := d.Normalize(Filters{TopN: -5}); got.TopN != TopNMin {
		t.Errorf("TopN should clamp to %d, got %d", TopNMin, got.TopN)
	}
}

func TestComputeSnapshot(t *testing.T) {
	d := New(fixtureDataset())
	snap, err := d.ComputeSnapshot(context.Background(), Filters{TopN: 2, Region: "RJ", Category: "books"})
	if err != nil {
		t.Fatalf("ComputeSnapshot failed: %v", err)
	}

	if snap.Filters.TopN != 2 || snap.Filters.Region != "RJ" || snap.Filters.Category != "books" {
		t.Errorf("filters should pass through normalized: %+v", snap.Filters)
	}
	if snap.Overview.TotalOrders != 4 {
		t.Errorf("overview missing from snapshot: %+v", snap.Overview)
	}
	if len(snap.TopCategories) != 2 {
		t.Errorf("expected truncated leaderboard, got %v", snap.TopCategories)
	}
	if snap.Region.Region != "RJ" || snap.Region.TotalRevenue != 120 {
		t.Errorf("unexpected region payload: %+v", snap.Region)
	}
	if snap.Product.Category != "books" {
		t.Errorf("unexpected product payload: %+v", snap.Product)
	}
}

func TestComputeSnapshotCancelled(t *testing.T) {
	d := New(fixtureDataset())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.ComputeSnapshot(ctx, Filters{}); err == nil {
		t.Error("cancelled context must fail the snapshot")
	}
}

// The universal join is associative for revenue: composing the five
// tables products-first must total the same as the orders-first chain
// the dashboard builds, orphans and duplicate order keys included.
func TestUniversalJoinOrderInvariance(t *testing.T) {
	ds := fixtureDataset()
	d := New(ds)

	want := 0.0
	for _, li := range d.lineItems {
		want += li.Price
	}

	type itemProduct struct {
		dataset.OrderItem
		category string
	}
	withProducts, _ := engine.InnerJoin(ds.OrderItems, ds.Products,
		func(i dataset.OrderItem) string { return i.ProductID },
		func(p dataset.Product) string { return p.ID },
		func(i dataset.OrderItem, p dataset.Product) itemProduct {
			return itemProduct{OrderItem: i, category: p.Category}
		})

	type itemOrder struct {
		itemProduct
		customerID string
	}
	withOrders, _ := engine.InnerJoin(withProducts, ds.Orders,
		func(r itemProduct) string { return r.OrderID },
		func(o dataset.Order) string { return o.ID },
		func(r itemProduct, o dataset.Order) itemOrder {
			return itemOrder{itemProduct: r, customerID: o.CustomerID}
		})

	type itemCustomer struct {
		itemOrder
		state string
	}
	withCustomers, _ := engine.InnerJoin(withOrders, ds.Customers,
		func(r itemOrder) string { return r.customerID },
		func(c dataset.Customer) string { return c.ID },
		func(r itemOrder, c dataset.Customer) itemCustomer {
			return itemCustomer{itemOrder: r, state: c.State}
		})

	full, _ := engine.InnerJoin(withCustomers, ds.Sellers,
		func(r itemCustomer) string { return r.SellerID },
		func(s dataset.Seller) string { return s.ID },
		func(r itemCustomer, s dataset.Seller) float64 { return r.Price })

	got := 0.0
	for _, price := range full {
		got += price
	}
	if got != want {
		t.Errorf("products-first chain totals %v, orders-first chain totals %v", got, want)
	}
	// The fixture's fully-joined items: 50 + 30 + 120 + 70. The o9
	// orphan drops out of either composition.
	if got != 270 {
		t.Errorf("expected joined revenue 270, got %v", got)
	}
}

func TestJoinStageDiagnostics(t *testing.T) {
	c := diag.New()
	New(fixtureDataset(), WithDiagnostics(c))

	snap := c.Snapshot()
	// The o9 orphan drops once against orders and once against payments.
	if got := snap["market_rows_dropped_total{stage=order_items_orders}"]; got != 1 {
		t.Errorf("expected 1 drop at order join, got %v", got)
	}
	if got := snap["market_rows_dropped_total{stage=order_items_payments}"]; got != 1 {
		t.Errorf("expected 1 drop at payment join, got %v", got)
	}
}
