package schema

// ============================================================================
// SCHEMA — Fixed shapes of the eight CSV extracts
// ============================================================================
// The dashboard works against a static snapshot with known file names and
// known columns. There is no discovery step: a header that does not carry
// every required column is a schema fault and aborts the whole load.
// ============================================================================

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Table describes one CSV extract: its fixed file name and the columns the
// aggregates read. Extra columns in the file are ignored.
type Table struct {
	Name    string   `json:"name"`
	File    string   `json:"file"`
	Columns []string `json:"columns"`
}

// The eight extracts. File names match the snapshot exactly.
var (
	Orders = Table{
		Name: "orders",
		File: "ORDERS.csv",
		Columns: []string{
			"order_id", "customer_id", "order_status",
			"order_purchase_timestamp",
			"order_delivered_customer_date",
			"order_estimated_delivery_date",
		},
	}
	OrderItems = Table{
		Name: "order_items",
		File: "ORDER_ITEMS.csv",
		Columns: []string{
			"order_id", "order_item_id", "product_id", "seller_id",
			"price", "freight_value",
		},
	}
	Customers = Table{
		Name:    "customers",
		File:    "CUSTOMERS.csv",
		Columns: []string{"customer_id", "customer_city", "customer_state"},
	}
	Products = Table{
		Name:    "products",
		File:    "PRODUCTS.csv",
		Columns: []string{"product_id", "product_category_name"},
	}
	Sellers = Table{
		Name:    "sellers",
		File:    "SELLERS.csv",
		Columns: []string{"seller_id", "seller_city", "seller_state"},
	}
	Payments = Table{
		Name:    "payments",
		File:    "ORDER_PAYMENTS.csv",
		Columns: []string{"order_id", "payment_sequential", "payment_type", "payment_value"},
	}
	Reviews = Table{
		Name:    "reviews",
		File:    "ORDER_REVIEW_RATINGS.csv",
		Columns: []string{"review_id", "order_id", "review_score"},
	}
	Geolocation = Table{
		Name:    "geolocation",
		File:    "GEO_LOCATION.csv",
		Columns: []string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng"},
	}
)

// Tables returns all eight extracts. Loading is all-or-nothing over this set.
func Tables() []Table {
	return []Table{Orders, OrderItems, Customers, Products, Sellers, Payments, Reviews, Geolocation}
}

// Indices maps every required column of t to its position in the header row.
// Header names are normalized before matching, so "Order ID" and
// "order_id" both resolve. A missing column is a schema fault; the error
// names the table and the column.
func (t Table) Indices(headers []string) (map[string]int, error) {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		key := NormalizeHeader(h)
		if _, seen := byName[key]; !seen {
			byName[key] = i
		}
	}

	idx := make(map[string]int, len(t.Columns))
	for _, col := range t.Columns {
		i, ok := byName[col]
		if !ok {
			return nil, fmt.Errorf("%s: missing required column %q", t.Name, col)
		}
		idx[col] = i
	}
	return idx, nil
}

// NormalizeHeader converts a raw header cell into a canonical column key:
// lowercase, accents stripped, word separators collapsed to underscores.
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose → remove nonspacing marks → recompose.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else (BOM, punctuation, stray bytes)
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// NormalizeCell cleans a raw data cell: NFC-composed UTF-8 with mojibake
// non-breaking spaces ("Â ") repaired and surrounding whitespace removed.
func NormalizeCell(s string) string {
	s = strings.ReplaceAll(s, "Â ", " ")
	s = strings.ReplaceAll(s, " ", " ")
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return strings.TrimSpace(s)
}
