package eval_test

import (
	"math"
	"testing"
	"time"

	"forecast-systemv1/internal/enrich"
	"forecast-systemv1/internal/eval"
	"forecast-systemv1/internal/frame"
	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/regress"
)

// Full pipeline over 60 synthetic daily bars with linearly increasing closes
// (100, 101, ..., 159): enrichment defines all indicators from position 19
// (the 20-bar window being the longest), the frame holds (60-20)-1 = 40
// rows, and the persistence baseline's holdout errors are hand-computable.
func TestPipeline_SixtyLinearBars(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 0, 60)
	for i := 0; i < 60; i++ {
		c := 100 + float64(i)
		bars = append(bars, model.Bar{
			Symbol: "BTC-USD",
			TS:     start.AddDate(0, 0, i),
			Open:   c, High: c + 0.5, Low: c - 0.5, Close: c,
			Volume: 1000,
		})
	}

	enriched, err := enrich.New(enrich.Config{}).Enrich(bars)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	for i, eb := range enriched {
		all := eb.MAShort.Valid && eb.MALong.Valid && eb.RSI.Valid
		if want := i >= 19; all != want {
			t.Fatalf("i=%d: indicators fully defined=%v, want %v", i, all, want)
		}
	}

	rows, err := frame.NewBuilder(1).Build(enriched)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(rows) != 40 {
		t.Fatalf("row count: got %d, want 40", len(rows))
	}

	runner := eval.NewRunner(regress.NewLastValue(), nil, nil)
	report, err := runner.Holdout(rows, 0.8)
	if err != nil {
		t.Fatalf("holdout: %v", err)
	}
	if report.TrainLen != 32 || report.TestLen != 8 {
		t.Fatalf("split sizes: got %d/%d, want 32/8", report.TrainLen, report.TestLen)
	}

	// Last train row labels close(51) = 151; test labels are 152..159.
	// Persistence errors are 1..8:
	// MAE = 4.5, RMSE = sqrt((1+4+...+64)/8) = sqrt(25.5).
	if got, want := report.Metrics.MAE, 4.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("MAE: got %.6f, want %.6f", got, want)
	}
	if got, want := report.Metrics.RMSE, math.Sqrt(25.5); math.Abs(got-want) > 1e-9 {
		t.Errorf("RMSE: got %.6f, want %.6f", got, want)
	}

	// OLS should beat persistence on a noise-free linear series.
	olsReport, err := eval.NewRunner(regress.NewLinear(), nil, nil).Holdout(rows, 0.8)
	if err != nil {
		t.Fatalf("ols holdout: %v", err)
	}
	if olsReport.Metrics.RMSE >= report.Metrics.RMSE {
		t.Errorf("OLS RMSE %.4f not better than persistence %.4f",
			olsReport.Metrics.RMSE, report.Metrics.RMSE)
	}
}
