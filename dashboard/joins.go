package dashboard

// ============================================================================
// DOMAIN JOINS — From raw relations to analysis line items
// ============================================================================
// Two join families feed every widget:
//
//   LineItem            order_items ⨝ orders ⨝ products ⨝ customers ⨝ sellers
//                       (the universal join for revenue/region analyses)
//   PaymentLine         order_items ⨝ payments            (payment aggregates)
//   CustomerPaymentLine PaymentLine ⨝ orders               (adds customer_id)
//
// All joins are inner: unmatched rows drop silently, counted per stage on
// the diagnostics channel.
// ============================================================================

import (
	"time"

	"github.com/CharanPatgar/market/dataset"
	"github.com/CharanPatgar/market/diag"
	"github.com/CharanPatgar/market/engine"
)

// LineItem is one row of the universal join. Region is the customer state
// and Revenue is the item price — freight never counts toward revenue.
type LineItem struct {
	OrderID       string
	ItemSeq       string
	ProductID     string
	SellerID      string
	CustomerID    string
	Price         float64
	Freight       float64
	Category      string
	CustomerCity  string
	CustomerState string
	SellerCity    string
	SellerState   string
	PurchasedAt   time.Time
}

// Region is the customer's state, the regional axis of every revenue view.
func (li LineItem) Region() string { return li.CustomerState }

// Revenue is the item price.
func (li LineItem) Revenue() float64 { return li.Price }

// CategoryLine is one row of order_items ⨝ products, the input to the
// category-revenue leaderboard.
type CategoryLine struct {
	OrderID  string
	SellerID string
	Category string
	Price    float64
}

// PaymentLine is one row of order_items ⨝ payments. A multi-payment order
// contributes one row per (item, payment) pair, as the source join does.
type PaymentLine struct {
	OrderID  string
	SellerID string
	Type     string
	Value    float64
}

// CustomerPaymentLine adds the ordering customer to a PaymentLine.
type CustomerPaymentLine struct {
	PaymentLine
	CustomerID string
}

// ReviewLine carries a review score to its product category.
type ReviewLine struct {
	OrderID  string
	Category string
	Score    float64
}

// CustomerOrder is one row of customers ⨝ orders, the heatmap input.
// Year is the purchase year, zero when the timestamp was unparseable.
type CustomerOrder struct {
	OrderID string
	State   string
	Year    int
}

func buildLineItems(ds *dataset.Dataset, dc *diag.Collector) []LineItem {
	type itemOrder struct {
		dataset.OrderItem
		customerID  string
		purchasedAt time.Time
	}

	withOrders, dropped := engine.InnerJoin(ds.OrderItems, ds.Orders,
		func(i dataset.OrderItem) string { return i.OrderID },
		func(o dataset.Order) string { return o.ID },
		func(i dataset.OrderItem, o dataset.Order) itemOrder {
			return itemOrder{OrderItem: i, customerID: o.CustomerID, purchasedAt: o.PurchasedAt}
		})
	dc.DroppedRows("order_items_orders", dropped)

	type itemProduct struct {
		itemOrder
		category string
	}
	withProducts, dropped := engine.InnerJoin(withOrders, ds.Products,
		func(r itemOrder) string { return r.ProductID },
		func(p dataset.Product) string { return p.ID },
		func(r itemOrder, p dataset.Product) itemProduct {
			return itemProduct{itemOrder: r, category: p.Category}
		})
	dc.DroppedRows("line_items_products", dropped)

	type itemCustomer struct {
		itemProduct
		customerCity  string
		customerState string
	}
	withCustomers, dropped := engine.InnerJoin(withProducts, ds.Customers,
		func(r itemProduct) string { return r.customerID },
		func(c dataset.Customer) string { return c.ID },
		func(r itemProduct, c dataset.Customer) itemCustomer {
			return itemCustomer{itemProduct: r, customerCity: c.City, customerState: c.State}
		})
	dc.DroppedRows("line_items_customers", dropped)

	lineItems, dropped := engine.InnerJoin(withCustomers, ds.Sellers,
		func(r itemCustomer) string { return r.SellerID },
		func(s dataset.Seller) string { return s.ID },
		func(r itemCustomer, s dataset.Seller) LineItem {
			return LineItem{
				OrderID:       r.OrderID,
				ItemSeq:       r.ItemSeq,
				ProductID:     r.ProductID,
				SellerID:      r.SellerID,
				CustomerID:    r.customerID,
				Price:         r.Price,
				Freight:       r.Freight,
				Category:      r.category,
				CustomerCity:  r.customerCity,
				CustomerState: r.customerState,
				SellerCity:    s.City,
				SellerState:   s.State,
				PurchasedAt:   r.purchasedAt,
			}
		})
	dc.DroppedRows("line_items_sellers", dropped)

	return lineItems
}

func buildCategoryLines(items []dataset.OrderItem, products []dataset.Product, dc *diag.Collector, stage string) []CategoryLine {
	lines, dropped := engine.InnerJoin(items, products,
		func(i dataset.OrderItem) string { return i.ProductID },
		func(p dataset.Product) string { return p.ID },
		func(i dataset.OrderItem, p dataset.Product) CategoryLine {
			return CategoryLine{OrderID: i.OrderID, SellerID: i.SellerID, Category: p.Category, Price: i.Price}
		})
	dc.DroppedRows(stage, dropped)
	return lines
}

func buildPaymentLines(ds *dataset.Dataset, dc *diag.Collector) []PaymentLine {
	lines, dropped := engine.InnerJoin(ds.OrderItems, ds.Payments,
		func(i dataset.OrderItem) string { return i.OrderID },
		func(p dataset.Payment) string { return p.OrderID },
		func(i dataset.OrderItem, p dataset.Payment) PaymentLine {
			return PaymentLine{OrderID: i.OrderID, SellerID: i.SellerID, Type: p.Type, Value: p.Value}
		})
	dc.DroppedRows("order_items_payments", dropped)
	return lines
}

func buildCustomerPaymentLines(paymentLines []PaymentLine, ds *dataset.Dataset, dc *diag.Collector) []CustomerPaymentLine {
	lines, dropped := engine.InnerJoin(paymentLines, ds.Orders,
		func(pl PaymentLine) string { return pl.OrderID },
		func(o dataset.Order) string { return o.ID },
		func(pl PaymentLine, o dataset.Order) CustomerPaymentLine {
			return CustomerPaymentLine{PaymentLine: pl, CustomerID: o.CustomerID}
		})
	dc.DroppedRows("payment_lines_orders", dropped)
	return lines
}

func buildReviewLines(ds *dataset.Dataset, dc *diag.Collector) []ReviewLine {
	type reviewItem struct {
		orderID   string
		productID string
		score     float64
	}
	withItems, dropped := engine.InnerJoin(ds.Reviews, ds.OrderItems,
		func(r dataset.Review) string { return r.OrderID },
		func(i dataset.OrderItem) string { return i.OrderID },
		func(r dataset.Review, i dataset.OrderItem) reviewItem {
			return reviewItem{orderID: r.OrderID, productID: i.ProductID, score: r.Score}
		})
	dc.DroppedRows("reviews_order_items", dropped)

	lines, dropped := engine.InnerJoin(withItems, ds.Products,
		func(r reviewItem) string { return r.productID },
		func(p dataset.Product) string { return p.ID },
		func(r reviewItem, p dataset.Product) ReviewLine {
			return ReviewLine{OrderID: r.orderID, Category: p.Category, Score: r.score}
		})
	dc.DroppedRows("review_items_products", dropped)
	return lines
}

func buildCustomerOrders(ds *dataset.Dataset, dc *diag.Collector) []CustomerOrder {
	rows, dropped := engine.InnerJoin(ds.Customers, ds.Orders,
		func(c dataset.Customer) string { return c.ID },
		func(o dataset.Order) string { return o.CustomerID },
		func(c dataset.Customer, o dataset.Order) CustomerOrder {
			year := 0
			if !o.PurchasedAt.IsZero() {
				year = o.PurchasedAt.Year()
			}
			return CustomerOrder{OrderID: o.ID, State: c.State, Year: year}
		})
	dc.DroppedRows("customers_orders", dropped)
	return rows
}
