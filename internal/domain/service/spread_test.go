package service

import (
	"math"
	"testing"

	"kimp/internal/domain/model"
)

func record(code string, samples map[string]model.PriceSample) model.AssetRecord {
	return model.AssetRecord{Code: code, Samples: samples}
}

func TestComputeMinPriceAndZeroDeviation(t *testing.T) {
	rec := record("KRW-BTC", map[string]model.PriceSample{
		"upbit":   {Price: 100_000_000, Quote: model.QuoteKRW},
		"bithumb": {Price: 99_000_000, Quote: model.QuoteKRW},
	})

	sum := Compute(rec, nil)

	if sum.MinPrice != 99_000_000 {
		t.Errorf("expected min price 99000000, got %v", sum.MinPrice)
	}
	if dev := sum.PerExchange["bithumb"].Deviation; dev != 0 {
		t.Errorf("cheapest exchange must have zero deviation, got %v", dev)
	}
	if dev := sum.PerExchange["upbit"].Deviation; math.Abs(dev-0.010101) > 0.0001 {
		t.Errorf("expected upbit deviation ~0.0101, got %v", dev)
	}
	if math.Abs(sum.MaxDeviation-sum.PerExchange["upbit"].Deviation) > 1e-12 {
		t.Errorf("max deviation should equal upbit's, got %v", sum.MaxDeviation)
	}
	if !sum.Comparable {
		t.Error("two present samples should be comparable")
	}
}

func TestComputeConvertsForeignQuote(t *testing.T) {
	rate := 1350.0
	rec := record("KRW-BTC", map[string]model.PriceSample{
		"binance": {Price: 60_000, Quote: model.QuoteUSDT},
		"upbit":   {Price: 82_000_000, Quote: model.QuoteKRW},
	})

	sum := Compute(rec, &rate)

	if got := sum.PerExchange["binance"].Price; got != 81_000_000 {
		t.Errorf("expected converted binance price 81000000, got %v", got)
	}
	if sum.MinPrice != 81_000_000 {
		t.Errorf("expected min 81000000, got %v", sum.MinPrice)
	}
}

func TestComputeUnknownRateExcludesForeignQuote(t *testing.T) {
	rec := record("KRW-BTC", map[string]model.PriceSample{
		"binance": {Price: 60_000, Quote: model.QuoteUSDT},
		"upbit":   {Price: 82_000_000, Quote: model.QuoteKRW},
	})

	sum := Compute(rec, nil)

	if _, present := sum.PerExchange["binance"]; present {
		t.Error("binance must be excluded when the rate is unknown, not compared at 60000")
	}
	if sum.MinPrice != 82_000_000 {
		t.Errorf("min should come from upbit alone, got %v", sum.MinPrice)
	}
	if sum.Comparable {
		t.Error("a single usable price is not comparable")
	}
}

func TestComputeEmptyRecord(t *testing.T) {
	sum := Compute(record("KRW-XRP", nil), nil)
	if sum.Comparable || len(sum.PerExchange) != 0 || sum.MinPrice != 0 {
		t.Errorf("empty record should yield empty summary, got %+v", sum)
	}
}

func TestRankOrdersByMaxDeviationDescending(t *testing.T) {
	snap := map[string]model.AssetRecord{
		"KRW-BTC": record("KRW-BTC", map[string]model.PriceSample{
			"upbit":   {Price: 101, Quote: model.QuoteKRW},
			"bithumb": {Price: 100, Quote: model.QuoteKRW},
		}),
		"KRW-ETH": record("KRW-ETH", map[string]model.PriceSample{
			"upbit":   {Price: 110, Quote: model.QuoteKRW},
			"bithumb": {Price: 100, Quote: model.QuoteKRW},
		}),
		"KRW-XRP": record("KRW-XRP", map[string]model.PriceSample{
			"upbit": {Price: 500, Quote: model.QuoteKRW},
		}),
	}

	board := Rank(snap, nil)

	want := []string{"KRW-ETH", "KRW-BTC", "KRW-XRP"}
	for i, code := range want {
		if board[i].Code != code {
			t.Fatalf("rank %d: expected %s, got %s", i, code, board[i].Code)
		}
	}
	if board[2].Comparable {
		t.Error("single-sample asset must not be comparable")
	}
}

func TestRankFewerThanTwoSamplesSortLast(t *testing.T) {
	snap := map[string]model.AssetRecord{
		// tiny but comparable spread
		"KRW-ADA": record("KRW-ADA", map[string]model.PriceSample{
			"upbit":   {Price: 1000.0001, Quote: model.QuoteKRW},
			"bithumb": {Price: 1000, Quote: model.QuoteKRW},
		}),
		"KRW-XRP": record("KRW-XRP", map[string]model.PriceSample{
			"upbit": {Price: 500, Quote: model.QuoteKRW},
		}),
		"KRW-DOGE": record("KRW-DOGE", nil),
	}

	board := Rank(snap, nil)

	if board[0].Code != "KRW-ADA" {
		t.Fatalf("comparable asset should rank first, got %s", board[0].Code)
	}
	// non-comparable tail ordered by code
	if board[1].Code != "KRW-DOGE" || board[2].Code != "KRW-XRP" {
		t.Errorf("expected KRW-DOGE then KRW-XRP, got %s then %s", board[1].Code, board[2].Code)
	}
}

func TestRankTieBrokenByCode(t *testing.T) {
	mk := func(code string) model.AssetRecord {
		return record(code, map[string]model.PriceSample{
			"upbit":   {Price: 102, Quote: model.QuoteKRW},
			"bithumb": {Price: 100, Quote: model.QuoteKRW},
		})
	}
	snap := map[string]model.AssetRecord{
		"KRW-ETH": mk("KRW-ETH"),
		"KRW-BTC": mk("KRW-BTC"),
	}

	board := Rank(snap, nil)
	if board[0].Code != "KRW-BTC" || board[1].Code != "KRW-ETH" {
		t.Errorf("equal deviations should order by code: got %s, %s", board[0].Code, board[1].Code)
	}
}
