// Package model defines the core domain types shared across the engine:
// raw and enriched price bars, supervised rows, fold windows, and
// evaluation reports.
package model

import (
	"fmt"
	"time"
)

// Bar is one daily OHLCV observation for a symbol.
// Bars are produced by the upstream data collaborator and never mutated here.
// Within a symbol, timestamps must be strictly increasing and prices positive.
type Bar struct {
	Symbol string    `json:"symbol"`
	TS     time.Time `json:"ts"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// OptFloat is an explicit optional float64. An indicator that lacks enough
// trailing history is Valid=false — never zero, never a sentinel, since
// legitimate indicator values can be zero. Mirrors the sql.NullFloat64 shape.
type OptFloat struct {
	Float64 float64 `json:"value"`
	Valid   bool    `json:"valid"`
}

// Defined wraps v as a present OptFloat.
func Defined(v float64) OptFloat { return OptFloat{Float64: v, Valid: true} }

// EnrichedBar is a Bar plus derived indicators. Each indicator is present
// only once its full window of history exists. Set once at enrichment time.
type EnrichedBar struct {
	Bar
	ChangePct OptFloat `json:"change_pct"` // day-over-day close change, percent
	MAShort   OptFloat `json:"ma_short"`   // short moving average (default 5 bars)
	MALong    OptFloat `json:"ma_long"`    // long moving average (default 20 bars)
	RSI       OptFloat `json:"rsi"`        // relative strength index (default 14 periods)
}

// InvariantError reports a contract breach by the upstream bar supplier:
// non-monotonic timestamps or non-positive prices. It is fatal — the engine
// never tries to repair bad input.
type InvariantError struct {
	Symbol string
	TS     time.Time
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("bar invariant violated: %s (symbol=%s ts=%s)",
		e.Reason, e.Symbol, e.TS.Format(time.RFC3339))
}
