// Command genmock generates a synthetic NOSDRA-style incident CSV for local
// development and test fixtures. It uses the actual domain package so the
// generated rows survive normalization, and a seeded RNG so fixtures are
// reproducible.
//
// Usage:
//
//	go run ./cmd/genmock -out data/nosdra_cleaned.csv -months 36 -per-month 8
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/okobah/spillcast/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	months := flag.Int("months", 36, "number of calendar months to cover")
	perMonth := flag.Int("per-month", 8, "average incidents per month")
	seed := flag.Int64("seed", 1, "RNG seed")
	start := flag.String("start", "2021-01-01", "first incident month (YYYY-MM-DD)")
	flag.Parse()

	if *out == "" || *months < 1 || *perMonth < 1 {
		flag.Usage()
		return fmt.Errorf("missing or invalid flags: -out, -months, -per-month")
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	zoneCodes := zoneCodes()

	rows := make([][]string, 0, *months**perMonth)
	for m := 0; m < *months; m++ {
		monthStart := time.Date(startDate.Year(), startDate.Month()+time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		daysInMonth := domain.MonthEnd(monthStart).Day()

		// Poisson-ish jitter around the requested density keeps the series
		// irregular the way real registers are.
		count := 1 + rng.Intn(*perMonth*2)
		for i := 0; i < count; i++ {
			day := 1 + rng.Intn(daysInMonth)
			date := time.Date(monthStart.Year(), monthStart.Month(), day, 0, 0, 0, 0, time.UTC)
			qty := 5 + rng.Float64()*495 // barrels
			zone := zoneCodes[rng.Intn(len(zoneCodes))]
			rows = append(rows, []string{
				date.Format("2006-01-02"),
				strconv.FormatFloat(qty, 'f', 2, 64),
				zone,
				fmt.Sprintf("site-%03d", rng.Intn(200)),
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close() //nolint:errcheck // flushed and synced below

	w := csv.NewWriter(f)
	if err := w.Write([]string{"incidentdate", "estimatedquantity", "zonaloffice", "location"}); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Printf("wrote %d incidents across %d months: %s", len(rows), *months, *out)
	return nil
}

// zoneCodes returns the known zonal-office codes in stable order so a fixed
// seed always produces the same file.
func zoneCodes() []string {
	names := domain.DefaultZoneNames()
	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
