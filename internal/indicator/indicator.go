// Package indicator provides technical indicator calculations over ordered
// close-price series.
//
// All functions are positional and pure: they take a chronological series
// and a 0-based position i, and report (value, ok). ok=false means the
// position lacks the trailing history its window needs. Callers must treat
// an undefined value as "exclude this position", never as zero — a partial
// average or a defaulted RSI would feed fabricated signal downstream.
package indicator

import "errors"

// ErrZeroPrevClose is returned by PriceChangePercent when the previous close
// is zero. Upstream guarantees positive prices, so hitting this means the
// contract was breached and the caller must fail loudly.
var ErrZeroPrevClose = errors.New("indicator: previous close is zero")

// MovingAverage returns the arithmetic mean of closes[i-w+1 .. i] inclusive.
// Undefined (ok=false) while i < w-1: fewer than w points would bias the
// average, so no partial value is ever produced.
func MovingAverage(closes []float64, i, w int) (float64, bool) {
	if w <= 0 || i < w-1 || i >= len(closes) {
		return 0, false
	}
	sum := 0.0
	for j := i - w + 1; j <= i; j++ {
		sum += closes[j]
	}
	return sum / float64(w), true
}

// RSI returns the Relative Strength Index over the last w bar-to-bar deltas
// ending at position i. This is the simplified (non-smoothed) Wilder
// variant: average gain and average loss are plain sums over the window
// divided by w, zero-deltas included. avgLoss == 0 yields 100.
// Undefined while i < w, since w deltas need w+1 closes.
func RSI(closes []float64, i, w int) (float64, bool) {
	if w <= 0 || i < w || i >= len(closes) {
		return 0, false
	}
	var gain, loss float64
	for j := i - w + 1; j <= i; j++ {
		delta := closes[j] - closes[j-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(w)
	avgLoss := loss / float64(w)
	if avgLoss == 0 {
		return 100.0, true
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), true
}

// PriceChangePercent returns (cur-prev)/prev * 100. The first bar of a
// symbol has no previous close and therefore no change value; callers skip
// the call there. A zero prevClose is an error, not a silent zero.
func PriceChangePercent(prevClose, curClose float64) (float64, error) {
	if prevClose == 0 {
		return 0, ErrZeroPrevClose
	}
	return (curClose - prevClose) / prevClose * 100.0, nil
}
