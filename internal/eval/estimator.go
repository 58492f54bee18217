// Package eval fits an externally supplied estimator on chronological folds
// and scores it. The engine never looks inside the estimator: it only needs
// fit and predict.
package eval

import "forecast-systemv1/internal/model"

// Estimator fits a predictive model on supervised rows. Fit must not retain
// or mutate the row slice; each fold fits fresh state.
type Estimator interface {
	// Name identifies the estimator in logs and reports (e.g. "ols").
	Name() string

	// Fit trains on the given rows and returns an immutable fitted model.
	Fit(rows []model.SupervisedRow) (Model, error)
}

// Model is a fitted predictor.
type Model interface {
	// Predict returns the forecast label for one feature vector.
	Predict(features []float64) float64
}
