package dataset

// ============================================================================
// LOADER — All-or-nothing CSV ingest with session memoization
// ============================================================================
// The dashboard fails to initialize unless every one of the eight files
// loads; there is no partial-data mode. A loaded Dataset is memoized per
// file-set fingerprint (path + size + mtime hashed with xxh3), so repeat
// Load calls for an unchanged directory reuse the in-memory tables.
// Invalidation is by process restart or by the files changing on disk.
// ============================================================================

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/CharanPatgar/market/diag"
	"github.com/CharanPatgar/market/engine"
	"github.com/CharanPatgar/market/schema"
)

// Option configures a Load call.
type Option func(*config)

type config struct {
	diagnostics *diag.Collector
}

// WithDiagnostics attaches a collector that receives coerced-timestamp
// counts observed during loading.
func WithDiagnostics(c *diag.Collector) Option {
	return func(cfg *config) { cfg.diagnostics = c }
}

var (
	cacheMu sync.Mutex
	cache   = make(map[uint64]*Dataset)
)

// Load reads the fixed file set from dir and returns the session Dataset.
// Any missing or unreadable file, or a header missing a required column,
// aborts the whole load.
func Load(dir string, opts ...Option) (*Dataset, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	fp, err := fingerprint(dir)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	if ds, ok := cache[fp]; ok {
		cacheMu.Unlock()
		log.Printf("📦 market: reusing loaded dataset for %s", dir)
		return ds, nil
	}
	cacheMu.Unlock()

	ds := &Dataset{}
	for _, t := range schema.Tables() {
		if err := loadTable(dir, t, ds, cfg.diagnostics); err != nil {
			return nil, err
		}
	}

	log.Printf("📦 market: loaded %d orders, %d items, %d customers, %d products, %d sellers, %d payments, %d reviews",
		len(ds.Orders), len(ds.OrderItems), len(ds.Customers), len(ds.Products),
		len(ds.Sellers), len(ds.Payments), len(ds.Reviews))

	cacheMu.Lock()
	cache[fp] = ds
	cacheMu.Unlock()
	return ds, nil
}

// fingerprint hashes the identity of the fixed file set: path, size and
// mtime per file, never content. An in-place edit that preserves both
// size and mtime keeps serving the memoized dataset until the process
// restarts; re-reading eight files to hash their bytes would cost as
// much as the load the cache exists to skip. A missing file is a load
// fault here already.
func fingerprint(dir string) (uint64, error) {
	h := xxh3.New()
	for _, t := range schema.Tables() {
		path := filepath.Join(dir, t.File)
		info, err := os.Stat(path)
		if err != nil {
			return 0, fmt.Errorf("load %s: %w", t.File, err)
		}
		fmt.Fprintf(h, "%s|%d|%d\n", path, info.Size(), info.ModTime().UnixNano())
	}
	return h.Sum64(), nil
}

func loadTable(dir string, t schema.Table, ds *Dataset, dc *diag.Collector) error {
	f, err := os.Open(filepath.Join(dir, t.File))
	if err != nil {
		return fmt.Errorf("load %s: %w", t.File, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return fmt.Errorf("read %s header: %w", t.File, err)
	}
	idx, err := t.Indices(headers)
	if err != nil {
		return fmt.Errorf("%s: %w", t.File, err)
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return schema.NormalizeCell(row[i])
	}
	num := func(row []string, col string) float64 {
		v, _ := strconv.ParseFloat(cell(row, col), 64)
		return v
	}
	coerced := 0
	ts := func(row []string, col string) time.Time {
		raw := cell(row, col)
		if raw == "" {
			return time.Time{}
		}
		parsed, ok := engine.ParseTimestamp(raw)
		if !ok {
			coerced++
			return time.Time{}
		}
		return parsed
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", t.File, err)
		}

		switch t.Name {
		case "orders":
			ds.Orders = append(ds.Orders, Order{
				ID:          cell(row, "order_id"),
				CustomerID:  cell(row, "customer_id"),
				Status:      cell(row, "order_status"),
				PurchasedAt: ts(row, "order_purchase_timestamp"),
				DeliveredAt: ts(row, "order_delivered_customer_date"),
				EstimatedAt: ts(row, "order_estimated_delivery_date"),
			})
		case "order_items":
			ds.OrderItems = append(ds.OrderItems, OrderItem{
				OrderID:   cell(row, "order_id"),
				ItemSeq:   cell(row, "order_item_id"),
				ProductID: cell(row, "product_id"),
				SellerID:  cell(row, "seller_id"),
				Price:     num(row, "price"),
				Freight:   num(row, "freight_value"),
			})
		case "customers":
			ds.Customers = append(ds.Customers, Customer{
				ID:    cell(row, "customer_id"),
				City:  cell(row, "customer_city"),
				State: cell(row, "customer_state"),
			})
		case "products":
			ds.Products = append(ds.Products, Product{
				ID:       cell(row, "product_id"),
				Category: cell(row, "product_category_name"),
			})
		case "sellers":
			ds.Sellers = append(ds.Sellers, Seller{
				ID:    cell(row, "seller_id"),
				City:  cell(row, "seller_city"),
				State: cell(row, "seller_state"),
			})
		case "payments":
			ds.Payments = append(ds.Payments, Payment{
				OrderID: cell(row, "order_id"),
				Seq:     cell(row, "payment_sequential"),
				Type:    cell(row, "payment_type"),
				Value:   num(row, "payment_value"),
			})
		case "reviews":
			ds.Reviews = append(ds.Reviews, Review{
				ID:      cell(row, "review_id"),
				OrderID: cell(row, "order_id"),
				Score:   num(row, "review_score"),
			})
		case "geolocation":
			ds.Geolocation = append(ds.Geolocation, Geolocation{
				ZipPrefix: cell(row, "geolocation_zip_code_prefix"),
				Lat:       num(row, "geolocation_lat"),
				Lng:       num(row, "geolocation_lng"),
			})
		}
	}

	dc.CoercedTimestamps(t.Name, coerced)
	return nil
}
