package model

import "time"

// Metrics holds the error measures for one fold's (predicted, actual) pairs.
// R2 is undefined when the test labels are constant (SS_tot == 0).
type Metrics struct {
	RMSE float64  `json:"rmse"`
	MAE  float64  `json:"mae"`
	R2   OptFloat `json:"r2"`
}

// PredictionPair is one test row's prediction next to its actual label,
// kept for residual visualization downstream.
type PredictionPair struct {
	TS        time.Time `json:"ts"`
	Predicted float64   `json:"predicted"`
	Actual    float64   `json:"actual"`
}

// FoldReport is the scored outcome of a single evaluated fold.
type FoldReport struct {
	Fold     Fold             `json:"fold"`
	TrainLen int              `json:"train_len"`
	TestLen  int              `json:"test_len"`
	Metrics  Metrics          `json:"metrics"`
	Pairs    []PredictionPair `json:"pairs"`
}

// WalkForwardReport aggregates a walk-forward run. Failed counts folds whose
// fit/score step errored; those are excluded from Folds and from Mean.
// Skipped is set when the planner declined to produce folds at all.
type WalkForwardReport struct {
	Folds      []FoldReport `json:"folds"`
	Failed     int          `json:"failed"`
	Skipped    bool         `json:"skipped"`
	SkipReason string       `json:"skip_reason,omitempty"`
	Mean       Metrics      `json:"mean"`
}
