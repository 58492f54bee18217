// Package frame builds supervised (features, label) rows from enriched bars.
//
// The label is always the close of the immediately following bar for the
// same symbol — never the feature bar itself. This is the leakage barrier:
// nothing derived from the label bar can reach the feature vector.
package frame

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"forecast-systemv1/internal/model"
)

// DefaultMinRows is the smallest frame worth splitting and training on.
const DefaultMinRows = 50

// ErrInsufficientData signals that too few rows were produced across all
// symbols to split meaningfully. Callers skip training; this is not a crash.
var ErrInsufficientData = errors.New("frame: insufficient rows")

// Builder converts enriched bars into an ordered supervised frame.
type Builder struct {
	minRows int
}

// NewBuilder creates a Builder. minRows <= 0 takes DefaultMinRows.
func NewBuilder(minRows int) *Builder {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	return &Builder{minRows: minRows}
}

// Build sorts bars by (symbol, timestamp) and, per symbol, emits one row for
// every adjacent pair (bar[i], bar[i+1]) where bar[i] has all indicators
// defined. The last bar of each symbol yields no row. Output rows stay
// grouped by symbol and time-ascending within symbol — SplitPlanner depends
// on that order.
func (b *Builder) Build(bars []model.EnrichedBar) ([]model.SupervisedRow, error) {
	sorted := make([]model.EnrichedBar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Symbol != sorted[j].Symbol {
			return sorted[i].Symbol < sorted[j].Symbol
		}
		return sorted[i].TS.Before(sorted[j].TS)
	})

	var rows []model.SupervisedRow
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Symbol == sorted[start].Symbol {
			end++
		}
		group := sorted[start:end]

		for i := 0; i+1 < len(group); i++ {
			cur, next := group[i], group[i+1]
			if !cur.ChangePct.Valid || !cur.MAShort.Valid || !cur.MALong.Valid || !cur.RSI.Valid {
				continue
			}
			rows = append(rows, model.SupervisedRow{
				Symbol:   cur.Symbol,
				TS:       cur.TS,
				LabelTS:  next.TS,
				Features: Features(cur),
				Label:    next.Close,
			})
		}
		start = end
	}

	if len(rows) < b.minRows {
		return nil, fmt.Errorf("%w: built %d rows across all symbols, need %d",
			ErrInsufficientData, len(rows), b.minRows)
	}
	return rows, nil
}

// Features derives the model input vector from one enriched bar. All terms
// are knowable at the bar's own close: the indicators plus log and square
// transforms of the current close. All indicator fields must be defined.
func Features(eb model.EnrichedBar) []float64 {
	return []float64{
		eb.ChangePct.Float64,
		eb.MAShort.Float64,
		eb.MALong.Float64,
		eb.RSI.Float64,
		math.Log(eb.Close),
		eb.Close * eb.Close,
	}
}
