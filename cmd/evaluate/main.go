// cmd/evaluate runs the full evaluation pipeline over stored daily bars:
// enrichment, supervised frame construction, chronological splitting, and
// estimator scoring — without ever letting future information into training.
//
// Usage:
//
//	go run ./cmd/evaluate --db=data/bars.db --symbols=BTC-USD --folds=3
//	go run ./cmd/evaluate --listen=:9090   # also serve /metrics and /ws
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forecast-systemv1/config"
	"forecast-systemv1/internal/enrich"
	"forecast-systemv1/internal/eval"
	"forecast-systemv1/internal/frame"
	"forecast-systemv1/internal/gateway"
	"forecast-systemv1/internal/logger"
	"forecast-systemv1/internal/metrics"
	"forecast-systemv1/internal/model"
	"forecast-systemv1/internal/regress"
	"forecast-systemv1/internal/split"
	redisstore "forecast-systemv1/internal/store/redis"
	sqlitestore "forecast-systemv1/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	cfg := config.Load()

	// Flags
	dbPath := flag.String("db", cfg.SQLitePath, "Path to SQLite bar database")
	symbolsStr := flag.String("symbols", cfg.Symbols, "Comma-separated symbols (empty = all stored)")
	ratio := flag.Float64("ratio", split.DefaultHoldoutRatio, "Holdout train fraction")
	folds := flag.Int("folds", split.DefaultFolds, "Walk-forward fold count")
	growthStart := flag.Float64("growth-start", split.DefaultGrowthStart, "Walk-forward train growth start fraction")
	growthStep := flag.Float64("growth-step", split.DefaultGrowthStep, "Walk-forward train growth step per fold")
	minRows := flag.Int("min-rows", frame.DefaultMinRows, "Minimum supervised rows to train on")
	shortW := flag.Int("short", enrich.DefaultShortWindow, "Short moving average window (bars)")
	longW := flag.Int("long", enrich.DefaultLongWindow, "Long moving average window (bars)")
	rsiW := flag.Int("rsi", enrich.DefaultRSIWindow, "RSI window (periods)")
	estName := flag.String("estimator", "ols", "Estimator: ols|last_value")
	listen := flag.String("listen", "", "Serve /metrics and /ws on this addr after the run (empty = run and exit)")
	flag.Parse()

	slg := logger.Init("evaluate", slog.LevelInfo)
	mtr := metrics.New()

	est, err := pickEstimator(*estName)
	if err != nil {
		log.Fatalf("[evaluate] %v", err)
	}

	// Load bars
	reader, err := sqlitestore.NewReader(*dbPath)
	if err != nil {
		log.Fatalf("[evaluate] sqlite open failed: %v", err)
	}
	defer reader.Close()

	cfg.Symbols = *symbolsStr
	symbols := cfg.ParseSymbols()
	if len(symbols) == 0 {
		symbols, err = reader.Symbols()
		if err != nil {
			log.Fatalf("[evaluate] list symbols failed: %v", err)
		}
	}
	if len(symbols) == 0 {
		log.Fatal("[evaluate] no symbols in store; run cmd/seed first")
	}

	var bars []model.Bar
	for _, sym := range symbols {
		symBars, err := reader.ReadBars(sym, 0)
		if err != nil {
			log.Fatalf("[evaluate] read bars for %s failed: %v", sym, err)
		}
		bars = append(bars, symBars...)
	}
	mtr.BarsLoaded.Add(float64(len(bars)))
	slg.Info("bars loaded", "symbols", len(symbols), "bars", len(bars))

	// Serve mode starts before the run so clients can watch it live.
	var hub *gateway.Hub
	if *listen != "" {
		hub = gateway.NewHub()
		mux := http.NewServeMux()
		mux.Handle("/metrics", mtr.Handler())
		mux.HandleFunc("/ws", hub.ServeWS)
		go func() {
			log.Printf("[evaluate] serving /metrics and /ws on %s", *listen)
			if err := http.ListenAndServe(*listen, mux); err != nil {
				log.Printf("[evaluate] http server: %v", err)
			}
		}()
	}

	// Enrich
	enrichStart := time.Now()
	enriched, err := enrich.New(enrich.Config{
		ShortWindow: *shortW,
		LongWindow:  *longW,
		RSIWindow:   *rsiW,
	}).Enrich(bars)
	if err != nil {
		// Invariant violations are upstream contract breaches; abort loudly.
		log.Fatalf("[evaluate] enrichment failed: %v", err)
	}
	mtr.EnrichDur.Observe(time.Since(enrichStart).Seconds())
	mtr.BarsEnriched.Add(float64(len(enriched)))

	// Build supervised frame
	rows, err := frame.NewBuilder(*minRows).Build(enriched)
	if err != nil {
		if errors.Is(err, frame.ErrInsufficientData) {
			slg.Warn("training skipped", "err", err)
			return
		}
		log.Fatalf("[evaluate] frame build failed: %v", err)
	}
	mtr.RowsBuilt.Add(float64(len(rows)))

	runner := eval.NewRunner(est, slg, mtr)

	// Holdout
	holdout, err := runner.Holdout(rows, *ratio)
	if err != nil {
		log.Fatalf("[evaluate] holdout evaluation failed: %v", err)
	}
	if hub != nil {
		hub.Broadcast("holdout_report", holdout)
	}

	// Walk-forward
	plan, err := split.WalkForward(len(rows), split.Config{
		Folds:       *folds,
		GrowthStart: *growthStart,
		GrowthStep:  *growthStep,
	})
	if err != nil {
		log.Fatalf("[evaluate] walk-forward planning failed: %v", err)
	}
	wf := runner.WalkForward(rows, plan)
	if hub != nil {
		hub.Broadcast("walkforward_report", wf)
	}

	publish(cfg, slg, enriched, holdout, wf)
	printSummary(est.Name(), len(bars), len(rows), holdout, wf)

	if *listen != "" {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
	}
}

func pickEstimator(name string) (eval.Estimator, error) {
	switch name {
	case "ols":
		return regress.NewLinear(), nil
	case "last_value":
		return regress.NewLastValue(), nil
	default:
		return nil, fmt.Errorf("unknown estimator %q (want ols or last_value)", name)
	}
}

// publish pushes run output to Redis when configured. Best-effort: a dead
// Redis degrades reporting, never the evaluation itself.
func publish(cfg *config.Config, slg *slog.Logger, enriched []model.EnrichedBar, holdout model.FoldReport, wf model.WalkForwardReport) {
	if cfg.RedisAddr == "" {
		return
	}
	pub, err := redisstore.New(redisstore.PublisherConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		slg.Warn("redis unavailable, skipping publish", "err", err)
		return
	}
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pub.PublishEnrichedBars(ctx, enriched); err != nil {
		slg.Warn("publish enriched bars failed", "err", err)
	}
	if err := pub.PublishReport(ctx, "holdout", holdout); err != nil {
		slg.Warn("publish holdout report failed", "err", err)
	}
	if err := pub.PublishReport(ctx, "walkforward", wf); err != nil {
		slg.Warn("publish walk-forward report failed", "err", err)
	}
}

func printSummary(estimator string, bars, rows int, holdout model.FoldReport, wf model.WalkForwardReport) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║            EVALUATION COMPLETE               ║")
	fmt.Println("╠══════════════════════════════════════════════╣")
	fmt.Printf("║  Estimator:          %-23s ║\n", estimator)
	fmt.Printf("║  Bars processed:     %-23d ║\n", bars)
	fmt.Printf("║  Supervised rows:    %-23d ║\n", rows)
	fmt.Printf("║  Holdout %d/%d:  RMSE=%-8.4f MAE=%-8.4f  ║\n",
		holdout.TrainLen, holdout.TestLen, holdout.Metrics.RMSE, holdout.Metrics.MAE)
	fmt.Printf("║  Holdout R²:         %-23s ║\n", fmtOpt(holdout.Metrics.R2))
	if wf.Skipped {
		fmt.Printf("║  Walk-forward:       skipped                 ║\n")
		fmt.Printf("║    reason: %-33s ║\n", truncate(wf.SkipReason, 33))
	} else {
		fmt.Printf("║  Walk-forward folds: %d ok, %d failed          ║\n", len(wf.Folds), wf.Failed)
		for _, f := range wf.Folds {
			fmt.Printf("║    fold %d: RMSE=%-8.4f MAE=%-8.4f R²=%-6s ║\n",
				f.Fold.Number, f.Metrics.RMSE, f.Metrics.MAE, fmtOpt(f.Metrics.R2))
		}
		fmt.Printf("║  Mean:     RMSE=%-8.4f MAE=%-8.4f R²=%-6s ║\n",
			wf.Mean.RMSE, wf.Mean.MAE, fmtOpt(wf.Mean.R2))
	}
	fmt.Println("╚══════════════════════════════════════════════╝")
}

func fmtOpt(v model.OptFloat) string {
	if !v.Valid {
		return "undef"
	}
	return fmt.Sprintf("%.4f", v.Float64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
