package eval

import (
	"fmt"
	"log/slog"
	"time"

	"forecast-systemv1/internal/metrics"
	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/split"
)

// Runner fits and scores an estimator over planned folds. Folds run
// sequentially: each fold's training window is a superset of the previous
// one, and every fold fits its own model instance, so no state is shared.
type Runner struct {
	est Estimator
	log *slog.Logger
	mtr *metrics.Metrics // optional
}

// NewRunner creates a Runner. log may be nil (defaults to slog.Default());
// mtr may be nil to disable instrumentation.
func NewRunner(est Estimator, log *slog.Logger, mtr *metrics.Metrics) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{est: est, log: log, mtr: mtr}
}

// EvaluateFold fits the estimator on the fold's train window and scores
// every test row. The rows slice must be the chronologically ordered frame
// the fold was planned against; it is read, never mutated.
func (r *Runner) EvaluateFold(rows []model.SupervisedRow, fold model.Fold) (model.FoldReport, error) {
	train := fold.Train(rows)
	test := fold.Test(rows)
	if len(train) == 0 || len(test) == 0 {
		return model.FoldReport{}, fmt.Errorf("%w: fold %d train=%d test=%d",
			split.ErrDegenerateSplit, fold.Number, len(train), len(test))
	}

	start := time.Now()
	fitted, err := r.est.Fit(train)
	if err != nil {
		return model.FoldReport{}, fmt.Errorf("fit %s on fold %d: %w", r.est.Name(), fold.Number, err)
	}

	pairs := make([]model.PredictionPair, 0, len(test))
	for _, row := range test {
		pairs = append(pairs, model.PredictionPair{
			TS:        row.TS,
			Predicted: fitted.Predict(row.Features),
			Actual:    row.Label,
		})
	}

	if r.mtr != nil {
		r.mtr.FoldEvalDur.Observe(time.Since(start).Seconds())
		r.mtr.FoldsEvaluated.Inc()
	}

	return model.FoldReport{
		Fold:     fold,
		TrainLen: len(train),
		TestLen:  len(test),
		Metrics:  Score(pairs),
		Pairs:    pairs,
	}, nil
}

// Holdout plans and evaluates the single 80/20-style chronological split.
func (r *Runner) Holdout(rows []model.SupervisedRow, ratio float64) (model.FoldReport, error) {
	fold, err := split.Holdout(len(rows), ratio)
	if err != nil {
		return model.FoldReport{}, err
	}
	report, err := r.EvaluateFold(rows, fold)
	if err != nil {
		return model.FoldReport{}, err
	}
	if r.mtr != nil {
		r.mtr.LastRMSE.WithLabelValues("holdout").Set(report.Metrics.RMSE)
		r.mtr.LastMAE.WithLabelValues("holdout").Set(report.Metrics.MAE)
	}
	return report, nil
}

// WalkForward evaluates every fold in the plan. A failing fold is logged as
// a warning and excluded from the aggregate; remaining folds still run —
// partial results beat total failure.
func (r *Runner) WalkForward(rows []model.SupervisedRow, plan split.Plan) model.WalkForwardReport {
	report := model.WalkForwardReport{
		Skipped:    plan.Skipped,
		SkipReason: plan.SkipReason,
	}
	if plan.Skipped {
		r.log.Warn("walk-forward evaluation skipped", "reason", plan.SkipReason)
		return report
	}

	for _, fold := range plan.Folds {
		fr, err := r.EvaluateFold(rows, fold)
		if err != nil {
			r.log.Warn("fold evaluation failed",
				"fold", fold.Number,
				"estimator", r.est.Name(),
				"err", err)
			report.Failed++
			if r.mtr != nil {
				r.mtr.FoldFailures.Inc()
			}
			continue
		}
		report.Folds = append(report.Folds, fr)
	}

	report.Mean = aggregate(report.Folds)
	if r.mtr != nil && len(report.Folds) > 0 {
		r.mtr.LastRMSE.WithLabelValues("walkforward").Set(report.Mean.RMSE)
		r.mtr.LastMAE.WithLabelValues("walkforward").Set(report.Mean.MAE)
	}
	return report
}
