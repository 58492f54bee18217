// cmd/seed fills the SQLite bar store with synthetic random-walk daily bars
// so the evaluation pipeline can run without any network data source.
//
// Usage:
//
//	go run ./cmd/seed --db=data/bars.db --symbols=BTC-USD,ETH-USD --days=365
package main

import (
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	"forecast-systemv1/config"
	"forecast-systemv1/internal/model"
	sqlitestore "forecast-systemv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	cfg := config.Load()

	dbPath := flag.String("db", cfg.SQLitePath, "Path to SQLite bar database")
	symbolsStr := flag.String("symbols", "BTC-USD", "Comma-separated symbols to generate")
	days := flag.Int("days", 365, "Number of daily bars per symbol")
	startPrice := flag.Float64("start", 30000, "Starting close price")
	drift := flag.Float64("drift", 0.0005, "Daily drift (fraction)")
	vol := flag.Float64("vol", 0.02, "Daily volatility (fraction)")
	seed := flag.Int64("seed", 1, "RNG seed (fixed seed = reproducible series)")
	fromStr := flag.String("from", "", "First bar date, YYYY-MM-DD (default: days ago from today)")
	flag.Parse()

	symbols := splitSymbols(*symbolsStr)
	if len(symbols) == 0 {
		log.Fatal("[seed] no symbols given")
	}

	from := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -*days)
	if *fromStr != "" {
		parsed, err := time.Parse("2006-01-02", *fromStr)
		if err != nil {
			log.Fatalf("[seed] bad --from date: %v", err)
		}
		from = parsed.UTC()
	}

	writer, err := sqlitestore.New(sqlitestore.WriterConfig{DBPath: *dbPath})
	if err != nil {
		log.Fatalf("[seed] sqlite open failed: %v", err)
	}
	defer writer.Close()

	rng := rand.New(rand.NewSource(*seed))
	total := 0
	for _, sym := range symbols {
		bars := generate(rng, sym, from, *days, *startPrice, *drift, *vol)
		if err := writer.WriteBars(bars); err != nil {
			log.Fatalf("[seed] write bars for %s failed: %v", sym, err)
		}
		total += len(bars)
		log.Printf("[seed] wrote %d bars for %s (%s .. %s)",
			len(bars), sym,
			bars[0].TS.Format("2006-01-02"),
			bars[len(bars)-1].TS.Format("2006-01-02"))
	}
	log.Printf("[seed] done: %d bars across %d symbols in %s", total, len(symbols), *dbPath)
}

// generate produces a geometric random walk of daily bars. Prices stay
// strictly positive by construction, keeping the downstream bar invariants.
func generate(rng *rand.Rand, symbol string, from time.Time, days int, start, drift, vol float64) []model.Bar {
	bars := make([]model.Bar, 0, days)
	price := start
	for i := 0; i < days; i++ {
		open := price
		ret := drift + vol*rng.NormFloat64()
		if ret < -0.5 {
			ret = -0.5 // cap a catastrophic down day; price must stay positive
		}
		price = open * (1 + ret)

		high := open
		if price > high {
			high = price
		}
		high *= 1 + 0.005*rng.Float64()
		low := open
		if price < low {
			low = price
		}
		low *= 1 - 0.005*rng.Float64()

		bars = append(bars, model.Bar{
			Symbol: symbol,
			TS:     from.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 500 + 1000*rng.Float64(),
		})
	}
	return bars
}

func splitSymbols(s string) []string {
	var symbols []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			symbols = append(symbols, p)
		}
	}
	return symbols
}
