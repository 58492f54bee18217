// Package enrich attaches technical indicators to raw bars, per symbol.
package enrich

import (
	"sort"

	"forecast-systemv1/internal/indicator"
	"forecast-systemv1/internal/model"
)

// Default indicator windows, in daily bars.
const (
	DefaultShortWindow = 5
	DefaultLongWindow  = 20
	DefaultRSIWindow   = 14
)

// Config sets the indicator windows. Zero values take the defaults.
type Config struct {
	ShortWindow int
	LongWindow  int
	RSIWindow   int
}

func (c Config) withDefaults() Config {
	if c.ShortWindow <= 0 {
		c.ShortWindow = DefaultShortWindow
	}
	if c.LongWindow <= 0 {
		c.LongWindow = DefaultLongWindow
	}
	if c.RSIWindow <= 0 {
		c.RSIWindow = DefaultRSIWindow
	}
	return c
}

// Enricher computes per-bar indicators against each symbol's own close
// series. Indicators never cross symbol boundaries.
type Enricher struct {
	cfg Config
}

// New creates an Enricher with the given windows.
func New(cfg Config) *Enricher {
	return &Enricher{cfg: cfg.withDefaults()}
}

// Enrich sorts bars by (symbol, timestamp), validates the bar invariants,
// and computes change%/short MA/long MA/RSI for every position. Output has
// the same cardinality as the input; positions with insufficient history
// carry undefined indicator fields rather than zeros. The input slice is
// not modified.
func (e *Enricher) Enrich(bars []model.Bar) ([]model.EnrichedBar, error) {
	sorted := make([]model.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Symbol != sorted[j].Symbol {
			return sorted[i].Symbol < sorted[j].Symbol
		}
		return sorted[i].TS.Before(sorted[j].TS)
	})

	if err := validate(sorted); err != nil {
		return nil, err
	}

	out := make([]model.EnrichedBar, 0, len(sorted))
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Symbol == sorted[start].Symbol {
			end++
		}
		group := sorted[start:end]

		closes := make([]float64, len(group))
		for i, b := range group {
			closes[i] = b.Close
		}

		for i, b := range group {
			eb := model.EnrichedBar{Bar: b}
			if i > 0 {
				pct, err := indicator.PriceChangePercent(closes[i-1], closes[i])
				if err != nil {
					// validate() guarantees positive closes; a zero here
					// means the guarantee broke.
					return nil, &model.InvariantError{
						Symbol: b.Symbol, TS: b.TS, Reason: err.Error(),
					}
				}
				eb.ChangePct = model.Defined(pct)
			}
			if v, ok := indicator.MovingAverage(closes, i, e.cfg.ShortWindow); ok {
				eb.MAShort = model.Defined(v)
			}
			if v, ok := indicator.MovingAverage(closes, i, e.cfg.LongWindow); ok {
				eb.MALong = model.Defined(v)
			}
			if v, ok := indicator.RSI(closes, i, e.cfg.RSIWindow); ok {
				eb.RSI = model.Defined(v)
			}
			out = append(out, eb)
		}
		start = end
	}
	return out, nil
}

// validate checks the upstream bar contract on a (symbol, ts)-sorted slice:
// positive prices, non-negative volume, and strictly increasing timestamps
// within each symbol. Violations are fatal.
func validate(sorted []model.Bar) error {
	for i, b := range sorted {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return &model.InvariantError{
				Symbol: b.Symbol, TS: b.TS, Reason: "non-positive price",
			}
		}
		if b.Volume < 0 {
			return &model.InvariantError{
				Symbol: b.Symbol, TS: b.TS, Reason: "negative volume",
			}
		}
		if i > 0 && sorted[i-1].Symbol == b.Symbol && !sorted[i-1].TS.Before(b.TS) {
			return &model.InvariantError{
				Symbol: b.Symbol, TS: b.TS,
				Reason: "duplicate or non-increasing timestamp",
			}
		}
	}
	return nil
}
