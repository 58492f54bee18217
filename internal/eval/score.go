package eval

import (
	"math"

	"forecast-systemv1/internal/model"
)

// Score computes RMSE, MAE and R² over one fold's prediction pairs.
// R² is left undefined when the actual labels are constant (SS_tot == 0)
// instead of dividing by zero; an undefined R² never poisons aggregates.
func Score(pairs []model.PredictionPair) model.Metrics {
	if len(pairs) == 0 {
		return model.Metrics{}
	}
	n := float64(len(pairs))

	var sqSum, absSum, actualSum float64
	for _, p := range pairs {
		d := p.Predicted - p.Actual
		sqSum += d * d
		absSum += math.Abs(d)
		actualSum += p.Actual
	}

	mean := actualSum / n
	var ssTot float64
	for _, p := range pairs {
		d := p.Actual - mean
		ssTot += d * d
	}

	m := model.Metrics{
		RMSE: math.Sqrt(sqSum / n),
		MAE:  absSum / n,
	}
	if ssTot > 0 {
		m.R2 = model.Defined(1 - sqSum/ssTot)
	}
	return m
}

// aggregate returns the arithmetic mean of per-fold metrics. R² averages
// only the folds where it is defined.
func aggregate(folds []model.FoldReport) model.Metrics {
	if len(folds) == 0 {
		return model.Metrics{}
	}
	var mean model.Metrics
	var r2Sum float64
	r2Count := 0
	for _, f := range folds {
		mean.RMSE += f.Metrics.RMSE
		mean.MAE += f.Metrics.MAE
		if f.Metrics.R2.Valid {
			r2Sum += f.Metrics.R2.Float64
			r2Count++
		}
	}
	n := float64(len(folds))
	mean.RMSE /= n
	mean.MAE /= n
	if r2Count > 0 {
		mean.R2 = model.Defined(r2Sum / float64(r2Count))
	}
	return mean
}
