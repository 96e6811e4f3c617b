package dataset

import "time"

// ============================================================================
// TYPED RELATIONS — The eight extracts as immutable in-memory tables
// ============================================================================
// One struct per extract, fields limited to what the aggregates read.
// The Dataset is built once per session and never mutated afterwards:
// every derived series is a pure function of these slices.
// ============================================================================

// Order is one row of ORDERS.csv. Zero-valued times mean the cell was
// missing or unparseable; date-dependent aggregates skip them.
type Order struct {
	ID          string
	CustomerID  string
	Status      string
	PurchasedAt time.Time
	DeliveredAt time.Time
	EstimatedAt time.Time
}

// OrderItem is one row of ORDER_ITEMS.csv. Price is what "revenue" means
// everywhere in the dashboard; freight is loaded but deliberately not
// part of revenue.
type OrderItem struct {
	OrderID   string
	ItemSeq   string
	ProductID string
	SellerID  string
	Price     float64
	Freight   float64
}

// Customer is one row of CUSTOMERS.csv.
type Customer struct {
	ID    string
	City  string
	State string
}

// Product is one row of PRODUCTS.csv. An empty Category is a null in the
// extract.
type Product struct {
	ID       string
	Category string
}

// Seller is one row of SELLERS.csv.
type Seller struct {
	ID    string
	City  string
	State string
}

// Payment is one row of ORDER_PAYMENTS.csv.
type Payment struct {
	OrderID string
	Seq     string
	Type    string
	Value   float64
}

// Review is one row of ORDER_REVIEW_RATINGS.csv.
type Review struct {
	ID      string
	OrderID string
	Score   float64
}

// Geolocation is one row of GEO_LOCATION.csv. Loaded for completeness of
// the fixed file set; no aggregate reads it yet.
type Geolocation struct {
	ZipPrefix string
	Lat       float64
	Lng       float64
}

// Dataset holds all eight relations for the lifetime of a session.
// Treat it as read-only after Load returns.
type Dataset struct {
	Orders      []Order
	OrderItems  []OrderItem
	Customers   []Customer
	Products    []Product
	Sellers     []Seller
	Payments    []Payment
	Reviews     []Review
	Geolocation []Geolocation
}
