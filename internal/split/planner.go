// Package split partitions a chronologically ordered supervised frame into
// train/test windows. No split here ever reorders or shuffles rows: later
// data is assumed strictly harder to model than earlier data, and a random
// shuffle would overstate accuracy.
package split

import (
	"errors"
	"fmt"

	"forecast-systemv1/internal/model"
)

// Defaults for the two split modes.
const (
	DefaultHoldoutRatio = 0.8
	DefaultFolds        = 3
	DefaultGrowthStart  = 0.5
	DefaultGrowthStep   = 0.1

	// minTestTail is the fewest trailing rows a fold may test on; a fold
	// whose train window eats into this tail is not emitted.
	minTestTail = 5

	// minRowsPerFold gates the whole walk-forward plan: below
	// folds*minRowsPerFold total rows the plan is skipped outright.
	minRowsPerFold = 20
)

// ErrDegenerateSplit signals split parameters that would produce an empty
// train or test partition. It is detected before any fitting happens.
var ErrDegenerateSplit = errors.New("split: degenerate partition")

// Holdout returns the single chronological train/test fold for n rows:
// train = rows[0:floor(n*ratio)), test = the rest. ratio <= 0 takes the
// default 0.8. Fewer than 2 rows, or a ratio leaving either side empty,
// is a degenerate split.
func Holdout(n int, ratio float64) (model.Fold, error) {
	if ratio <= 0 {
		ratio = DefaultHoldoutRatio
	}
	if n < 2 {
		return model.Fold{}, fmt.Errorf("%w: need at least 2 rows, got %d", ErrDegenerateSplit, n)
	}
	if ratio >= 1 {
		return model.Fold{}, fmt.Errorf("%w: ratio %.2f leaves no test rows", ErrDegenerateSplit, ratio)
	}
	idx := int(float64(n) * ratio)
	if idx == 0 {
		return model.Fold{}, fmt.Errorf("%w: ratio %.2f leaves no train rows for n=%d", ErrDegenerateSplit, ratio, n)
	}
	return model.Fold{Number: 1, TrainEnd: idx, TestEnd: n}, nil
}

// Config controls walk-forward fold generation. The growth schedule is
// fold f's train fraction: GrowthStart + GrowthStep*f. The classic schedule
// (0.5, 0.1) trains fold 1 on the first 60%, fold 2 on 70%, and so on.
// Zero values take the defaults.
type Config struct {
	Folds       int
	GrowthStart float64
	GrowthStep  float64
}

func (c Config) withDefaults() Config {
	if c.Folds <= 0 {
		c.Folds = DefaultFolds
	}
	if c.GrowthStart <= 0 {
		c.GrowthStart = DefaultGrowthStart
	}
	if c.GrowthStep <= 0 {
		c.GrowthStep = DefaultGrowthStep
	}
	return c
}

// Plan is the outcome of walk-forward planning. Skipped plans carry no folds
// and a human-readable reason; they are a degraded-but-valid outcome, not an
// error.
type Plan struct {
	Folds      []model.Fold
	Skipped    bool
	SkipReason string
}

// WalkForward plans growing-train-window folds over n rows. Fold f trains on
// rows[0:floor(n*(start+step*f))) and tests on the following
// max(5, floor(n*0.1)) rows, capped at n. Planning stops early once a train
// window would leave fewer than 5 trailing rows. Train boundaries must
// strictly advance fold to fold; a schedule that stalls is rejected.
func WalkForward(n int, cfg Config) (Plan, error) {
	cfg = cfg.withDefaults()

	if min := cfg.Folds * minRowsPerFold; n < min {
		return Plan{
			Skipped: true,
			SkipReason: fmt.Sprintf("walk-forward needs at least %d rows for %d folds, got %d",
				min, cfg.Folds, n),
		}, nil
	}

	testLen := n / 10
	if testLen < minTestTail {
		testLen = minTestTail
	}

	var folds []model.Fold
	prevTrainEnd := 0
	for f := 1; f <= cfg.Folds; f++ {
		trainEnd := int(float64(n) * (cfg.GrowthStart + cfg.GrowthStep*float64(f)))
		if trainEnd >= n-minTestTail {
			break
		}
		if trainEnd <= prevTrainEnd {
			return Plan{}, fmt.Errorf("%w: fold %d train end %d does not advance past %d (start=%.2f step=%.2f)",
				ErrDegenerateSplit, f, trainEnd, prevTrainEnd, cfg.GrowthStart, cfg.GrowthStep)
		}
		testEnd := trainEnd + testLen
		if testEnd > n {
			testEnd = n
		}
		folds = append(folds, model.Fold{Number: f, TrainEnd: trainEnd, TestEnd: testEnd})
		prevTrainEnd = trainEnd
	}

	if len(folds) == 0 {
		return Plan{
			Skipped: true,
			SkipReason: fmt.Sprintf("growth schedule (start=%.2f step=%.2f) leaves no test tail for n=%d",
				cfg.GrowthStart, cfg.GrowthStep, n),
		}, nil
	}
	return Plan{Folds: folds}, nil
}
