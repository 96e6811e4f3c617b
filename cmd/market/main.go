package main

// ============================================================================
// MARKET CLI — Compute the dashboard snapshot for a data directory
// ============================================================================

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/CharanPatgar/market/dashboard"
	"github.com/CharanPatgar/market/dataset"
	"github.com/CharanPatgar/market/diag"
)

const version = "0.1.0"

func main() {
	dataDir := flag.String("data", "", "Directory holding the eight CSV extracts (required)")
	topN := flag.Int("top-n", dashboard.TopNDefault, "Leaderboard length (1 to 71)")
	region := flag.String("region", "", "Region (seller state) for revenue analysis; default: first in source order")
	product := flag.String("product", "", "Product category for the insights panel; default: first in source order")
	format := flag.String("format", "json", "Output format: json, pretty, csv, text")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	showDiag := flag.Bool("diag", false, "Print drop diagnostics to stderr after computing")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `market — e-commerce marketing analysis core

Usage:
  market --data ./data --top-n 10 --format pretty
  market --data ./data --region SP --product toys --format json
  market --data ./data --format csv --out leaderboard.csv

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Formats:
  json      Full snapshot as JSON (default)
  pretty    Pretty-printed JSON
  csv       Category leaderboard as CSV (ready for Sheets/Excel)
  text      Human-readable summary
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("market %s\n", version)
		os.Exit(0)
	}
	if *dataDir == "" {
		fmt.Fprintln(os.Stderr, "Error: --data is required")
		flag.Usage()
		os.Exit(1)
	}

	writer := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	collector := diag.New()

	ds, err := dataset.Load(*dataDir, dataset.WithDiagnostics(collector))
	if err != nil {
		fatalf("Failed to load dataset: %v", err)
	}

	dash := dashboard.New(ds, dashboard.WithDiagnostics(collector))

	snap, err := dash.ComputeSnapshot(context.Background(), dashboard.Filters{
		TopN:     *topN,
		Region:   *region,
		Category: *product,
	})
	if err != nil {
		fatalf("Failed to compute snapshot: %v", err)
	}

	switch *format {
	case "csv":
		writeLeaderboardCSV(writer, snap)
		if *outFile != "" {
			log.Printf("📄 CSV written to %s", *outFile)
		}
	case "pretty":
		writeJSON(writer, snap, true)
	case "text":
		writeText(writer, snap)
	default:
		writeJSON(writer, snap, false)
	}

	if *showDiag {
		for key, v := range collector.Snapshot() {
			fmt.Fprintf(os.Stderr, "%s %s\n", key, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
}

func writeLeaderboardCSV(w *os.File, snap *dashboard.Snapshot) {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	cw.Write([]string{"Product Category", "Revenue"})
	for _, p := range snap.TopCategories {
		cw.Write([]string{p.Label, fmtNum(p.Value)})
	}
}

func writeText(w *os.File, snap *dashboard.Snapshot) {
	o := snap.Overview
	fmt.Fprintln(w, "Overview")
	fmt.Fprintf(w, "  Products:   %d\n", o.TotalProducts)
	fmt.Fprintf(w, "  Revenue:    %s\n", fmtCurrency(o.TotalRevenue))
	fmt.Fprintf(w, "  Sellers:    %d\n", o.TotalSellers)
	fmt.Fprintf(w, "  Customers:  %d\n", o.TotalCustomers)
	fmt.Fprintf(w, "  Orders:     %d\n", o.TotalOrders)

	fmt.Fprintf(w, "\n%s\n", snap.TopCategoriesTitle)
	for i, p := range snap.TopCategories {
		label := p.Label
		if label == "" {
			label = "(uncategorized)"
		}
		fmt.Fprintf(w, "  %2d. %-40s %s\n", i+1, label, fmtCurrency(p.Value))
	}

	fmt.Fprintf(w, "\nRegion %s — total %s across %d categories\n",
		snap.Region.Region, fmtCurrency(snap.Region.TotalRevenue), len(snap.Region.Categories))

	p := snap.Product
	fmt.Fprintf(w, "\nProduct category %q\n", p.Category)
	fmt.Fprintf(w, "  Revenue:    %s\n", fmtCurrency(p.TotalRevenue))
	if p.AvgPrice.Valid {
		fmt.Fprintf(w, "  Avg price:  %s\n", fmtCurrency(p.AvgPrice.Value))
	} else {
		fmt.Fprintln(w, "  Avg price:  no data")
	}
	if p.AvgRating.Valid {
		fmt.Fprintf(w, "  Avg rating: %.2f\n", p.AvgRating.Value)
	} else {
		fmt.Fprintln(w, "  Avg rating: no data")
	}
}

func writeJSON(w *os.File, v interface{}, pretty bool) {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}
	fmt.Fprintln(w, string(out))
}

// fmtCurrency renders 1234567.5 as "$1,234,567.50".
func fmtCurrency(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "$" + strings.Join(groups, ",") + frac
	if neg {
		out = "-" + out
	}
	return out
}

func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
