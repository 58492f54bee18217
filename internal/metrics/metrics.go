// Package metrics exposes Prometheus metrics for the evaluation engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	registry *prometheus.Registry

	BarsLoaded   prometheus.Counter
	BarsEnriched prometheus.Counter
	RowsBuilt    prometheus.Counter

	FoldsEvaluated prometheus.Counter
	FoldFailures   prometheus.Counter

	EnrichDur   prometheus.Histogram
	FoldEvalDur prometheus.Histogram

	LastRMSE *prometheus.GaugeVec // labels: mode (holdout|walkforward)
	LastMAE  *prometheus.GaugeVec // labels: mode
}

// New registers and returns all engine metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		BarsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engine_bars_loaded_total",
			Help: "Raw daily bars loaded from the store",
		}),
		BarsEnriched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engine_bars_enriched_total",
			Help: "Bars run through indicator enrichment",
		}),
		RowsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engine_rows_built_total",
			Help: "Supervised rows built across all symbols",
		}),

		FoldsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engine_folds_evaluated_total",
			Help: "Folds fitted and scored successfully",
		}),
		FoldFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engine_fold_failures_total",
			Help: "Folds whose fit or score step failed (isolated, run continues)",
		}),

		EnrichDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engine_enrich_duration_seconds",
			Help:    "Feature enrichment latency per run",
			Buckets: prometheus.DefBuckets,
		}),
		FoldEvalDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engine_fold_eval_duration_seconds",
			Help:    "Fit + score latency per fold",
			Buckets: prometheus.DefBuckets,
		}),

		LastRMSE: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "engine_last_rmse",
			Help: "RMSE of the most recent evaluation run (by split mode)",
		}, []string{"mode"}),
		LastMAE: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "engine_last_mae",
			Help: "MAE of the most recent evaluation run (by split mode)",
		}, []string{"mode"}),
	}

	m.registry.MustRegister(
		m.BarsLoaded,
		m.BarsEnriched,
		m.RowsBuilt,
		m.FoldsEvaluated,
		m.FoldFailures,
		m.EnrichDur,
		m.FoldEvalDur,
		m.LastRMSE,
		m.LastMAE,
	)
	return m
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
