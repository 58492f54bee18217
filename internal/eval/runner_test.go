package eval

import (
	"errors"
	"math"
	"testing"
	"time"

	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/split"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f)", label, got, want, tol)
	}
}

// syntheticRows builds n chronological rows whose label equals the row index.
func syntheticRows(n int) []model.SupervisedRow {
	rows := make([]model.SupervisedRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, model.SupervisedRow{
			Symbol:   "TEST",
			TS:       day(i),
			LabelTS:  day(i + 1),
			Features: []float64{float64(i)},
			Label:    float64(i),
		})
	}
	return rows
}

// lastLabel is a persistence estimator local to the tests.
type lastLabel struct{}

func (lastLabel) Name() string { return "last_label" }
func (lastLabel) Fit(rows []model.SupervisedRow) (Model, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows")
	}
	return constModel(rows[len(rows)-1].Label), nil
}

type constModel float64

func (m constModel) Predict(_ []float64) float64 { return float64(m) }

// failAbove fails Fit once the training window exceeds a size limit,
// to exercise per-fold failure isolation.
type failAbove struct{ limit int }

func (f failAbove) Name() string { return "fail_above" }
func (f failAbove) Fit(rows []model.SupervisedRow) (Model, error) {
	if len(rows) > f.limit {
		return nil, errors.New("induced fit failure")
	}
	return constModel(rows[len(rows)-1].Label), nil
}

func TestScore_HandComputed(t *testing.T) {
	// predicted: 3, 5; actual: 1, 9 → errors 2, -4
	// RMSE = sqrt((4+16)/2) = sqrt(10); MAE = 3
	// mean(actual) = 5, SS_tot = 16+16 = 32, SS_res = 20 → R² = 1-20/32
	pairs := []model.PredictionPair{
		{Predicted: 3, Actual: 1},
		{Predicted: 5, Actual: 9},
	}
	m := Score(pairs)
	assertClose(t, "RMSE", m.RMSE, math.Sqrt(10), 1e-9)
	assertClose(t, "MAE", m.MAE, 3, 1e-9)
	if !m.R2.Valid {
		t.Fatal("R2 should be defined")
	}
	assertClose(t, "R2", m.R2.Float64, 1-20.0/32.0, 1e-9)
}

func TestScore_R2UndefinedOnConstantActuals(t *testing.T) {
	pairs := []model.PredictionPair{
		{Predicted: 4, Actual: 7},
		{Predicted: 6, Actual: 7},
		{Predicted: 7, Actual: 7},
	}
	m := Score(pairs)
	if m.R2.Valid {
		t.Fatalf("R2 must be undefined for constant actuals, got %.4f", m.R2.Float64)
	}
	if math.IsNaN(m.RMSE) || math.IsInf(m.RMSE, 0) {
		t.Error("RMSE corrupted")
	}
}

func TestAggregate_SkipsUndefinedR2(t *testing.T) {
	folds := []model.FoldReport{
		{Metrics: model.Metrics{RMSE: 2, MAE: 1, R2: model.Defined(0.5)}},
		{Metrics: model.Metrics{RMSE: 4, MAE: 3}}, // R2 undefined
	}
	mean := aggregate(folds)
	assertClose(t, "mean RMSE", mean.RMSE, 3, 1e-9)
	assertClose(t, "mean MAE", mean.MAE, 2, 1e-9)
	if !mean.R2.Valid {
		t.Fatal("mean R2 should be defined from the one defined fold")
	}
	assertClose(t, "mean R2", mean.R2.Float64, 0.5, 1e-9)
}

func TestRunner_Holdout(t *testing.T) {
	rows := syntheticRows(100)
	r := NewRunner(lastLabel{}, nil, nil)

	report, err := r.Holdout(rows, 0.8)
	if err != nil {
		t.Fatalf("holdout: %v", err)
	}
	if report.TrainLen != 80 || report.TestLen != 20 {
		t.Fatalf("split sizes: got %d/%d, want 80/20", report.TrainLen, report.TestLen)
	}
	// Train strictly precedes test in time.
	lastTrainTS := rows[report.Fold.TrainEnd-1].TS
	for _, p := range report.Pairs {
		if !p.TS.After(lastTrainTS) {
			t.Fatalf("test pair at %s not after train end %s", p.TS, lastTrainTS)
		}
	}
	// Persistence predicts 79 for labels 80..99:
	// errors 1..20 → MAE = 10.5.
	assertClose(t, "MAE", report.Metrics.MAE, 10.5, 1e-9)
}

func TestRunner_Holdout_DegenerateRows(t *testing.T) {
	r := NewRunner(lastLabel{}, nil, nil)
	if _, err := r.Holdout(syntheticRows(1), 0.8); !errors.Is(err, split.ErrDegenerateSplit) {
		t.Fatalf("expected ErrDegenerateSplit, got %v", err)
	}
}

func TestRunner_WalkForward_FailedFoldIsolated(t *testing.T) {
	rows := syntheticRows(100)
	plan, err := split.WalkForward(len(rows), split.Config{Folds: 3})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Folds) != 3 {
		t.Fatalf("fold count: got %d", len(plan.Folds))
	}

	// Folds train on 60/70/80 rows; fail everything above 65 → folds 2 and 3
	// fail, fold 1 must still be reported.
	r := NewRunner(failAbove{limit: 65}, nil, nil)
	report := r.WalkForward(rows, plan)

	if report.Failed != 2 {
		t.Errorf("failed folds: got %d, want 2", report.Failed)
	}
	if len(report.Folds) != 1 {
		t.Fatalf("reported folds: got %d, want 1", len(report.Folds))
	}
	if report.Folds[0].Fold.Number != 1 {
		t.Errorf("surviving fold: got %d, want 1", report.Folds[0].Fold.Number)
	}
	// Mean comes from the surviving fold alone.
	assertClose(t, "mean RMSE", report.Mean.RMSE, report.Folds[0].Metrics.RMSE, 1e-9)
}

func TestRunner_WalkForward_SkippedPlan(t *testing.T) {
	rows := syntheticRows(30)
	plan, err := split.WalkForward(len(rows), split.Config{Folds: 3})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	r := NewRunner(lastLabel{}, nil, nil)
	report := r.WalkForward(rows, plan)
	if !report.Skipped {
		t.Fatal("expected skipped report")
	}
	if len(report.Folds) != 0 || report.Failed != 0 {
		t.Error("skipped report must carry no fold results")
	}
}

func TestRunner_WalkForward_AggregatesAcrossFolds(t *testing.T) {
	rows := syntheticRows(200)
	plan, err := split.WalkForward(len(rows), split.Config{Folds: 3})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	r := NewRunner(lastLabel{}, nil, nil)
	report := r.WalkForward(rows, plan)

	if len(report.Folds) != 3 {
		t.Fatalf("fold count: got %d, want 3", len(report.Folds))
	}
	// Each fold tests 20 rows right after the train window; persistence
	// errors are 1..20 regardless of the fold → identical per-fold MAE.
	for _, f := range report.Folds {
		assertClose(t, "fold MAE", f.Metrics.MAE, 10.5, 1e-9)
	}
	assertClose(t, "mean MAE", report.Mean.MAE, 10.5, 1e-9)
}
