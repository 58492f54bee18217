package enrich

import (
	"errors"
	"math"
	"testing"
	"time"

	"forecast-systemv1/internal/model"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bar(symbol string, n int, close float64) model.Bar {
	return model.Bar{
		Symbol: symbol,
		TS:     day(n),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 1000,
	}
}

func TestEnrich_WindowsGateDefinedness(t *testing.T) {
	// 25 bars, one symbol. With windows 5/20/14:
	// change% defined from i=1, MA5 from i=4, RSI14 from i=14, MA20 from i=19.
	var bars []model.Bar
	for i := 0; i < 25; i++ {
		bars = append(bars, bar("BTC-USD", i, 100+float64(i)))
	}

	e := New(Config{})
	enriched, err := e.Enrich(bars)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(enriched) != len(bars) {
		t.Fatalf("cardinality changed: got %d, want %d", len(enriched), len(bars))
	}

	for i, eb := range enriched {
		if got, want := eb.ChangePct.Valid, i >= 1; got != want {
			t.Errorf("i=%d: ChangePct.Valid=%v, want %v", i, got, want)
		}
		if got, want := eb.MAShort.Valid, i >= 4; got != want {
			t.Errorf("i=%d: MAShort.Valid=%v, want %v", i, got, want)
		}
		if got, want := eb.RSI.Valid, i >= 14; got != want {
			t.Errorf("i=%d: RSI.Valid=%v, want %v", i, got, want)
		}
		if got, want := eb.MALong.Valid, i >= 19; got != want {
			t.Errorf("i=%d: MALong.Valid=%v, want %v", i, got, want)
		}
	}

	// Spot-check values: at i=4, MA5 = (100+101+102+103+104)/5 = 102.
	if got := enriched[4].MAShort.Float64; math.Abs(got-102) > 0.0001 {
		t.Errorf("MA5 at i=4: got %.4f, want 102", got)
	}
	// Linearly rising closes → RSI = 100 everywhere it is defined.
	if got := enriched[14].RSI.Float64; math.Abs(got-100) > 0.0001 {
		t.Errorf("RSI at i=14: got %.4f, want 100", got)
	}
	// change% at i=1: (101-100)/100*100 = 1.
	if got := enriched[1].ChangePct.Float64; math.Abs(got-1.0) > 0.0001 {
		t.Errorf("ChangePct at i=1: got %.4f, want 1.0", got)
	}
}

func TestEnrich_NeverCrossesSymbols(t *testing.T) {
	// Interleave two symbols. Each symbol has only 6 bars, so MA5 must be
	// defined exactly from the 5th bar of EACH symbol, not of the merged
	// stream.
	var bars []model.Bar
	for i := 0; i < 6; i++ {
		bars = append(bars, bar("ETH-USD", i, 2000+float64(i)*10))
		bars = append(bars, bar("BTC-USD", i, 30000+float64(i)*100))
	}

	enriched, err := New(Config{}).Enrich(bars)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}

	perSymbol := make(map[string][]model.EnrichedBar)
	for _, eb := range enriched {
		perSymbol[eb.Symbol] = append(perSymbol[eb.Symbol], eb)
	}
	for sym, group := range perSymbol {
		if len(group) != 6 {
			t.Fatalf("%s: got %d bars, want 6", sym, len(group))
		}
		for i, eb := range group {
			if got, want := eb.MAShort.Valid, i >= 4; got != want {
				t.Errorf("%s i=%d: MAShort.Valid=%v, want %v", sym, i, got, want)
			}
			// First bar of each symbol has no previous close.
			if got, want := eb.ChangePct.Valid, i >= 1; got != want {
				t.Errorf("%s i=%d: ChangePct.Valid=%v, want %v", sym, i, got, want)
			}
		}
	}

	// MA5 for ETH at its 5th bar must use ETH closes only:
	// (2000+2010+2020+2030+2040)/5 = 2020.
	if got := perSymbol["ETH-USD"][4].MAShort.Float64; math.Abs(got-2020) > 0.0001 {
		t.Errorf("ETH MA5: got %.4f, want 2020 (crossed symbol boundary?)", got)
	}
}

func TestEnrich_SortsUnorderedInput(t *testing.T) {
	bars := []model.Bar{
		bar("BTC-USD", 2, 102),
		bar("BTC-USD", 0, 100),
		bar("BTC-USD", 1, 101),
	}
	enriched, err := New(Config{ShortWindow: 2, LongWindow: 3, RSIWindow: 2}).Enrich(bars)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	for i := 1; i < len(enriched); i++ {
		if !enriched[i-1].TS.Before(enriched[i].TS) {
			t.Fatalf("output not chronological at %d", i)
		}
	}
	// Input order must be untouched.
	if !bars[0].TS.Equal(day(2)) {
		t.Error("input slice was reordered")
	}
}

func TestEnrich_DuplicateTimestampIsFatal(t *testing.T) {
	bars := []model.Bar{
		bar("BTC-USD", 0, 100),
		bar("BTC-USD", 0, 101),
	}
	_, err := New(Config{}).Enrich(bars)
	var inv *model.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvariantError, got %v", err)
	}
	if inv.Symbol != "BTC-USD" {
		t.Errorf("diagnostic symbol: got %q", inv.Symbol)
	}
}

func TestEnrich_NonPositivePriceIsFatal(t *testing.T) {
	b := bar("BTC-USD", 0, 100)
	b.Close = 0
	_, err := New(Config{}).Enrich([]model.Bar{b})
	var inv *model.InvariantError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvariantError, got %v", err)
	}
}
