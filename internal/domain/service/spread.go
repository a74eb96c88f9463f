package service

import (
	"sort"

	"kimp/internal/domain/model"
)

// Compute derives the spread summary for one asset. Samples quoted in a
// foreign unit are multiplied by usdKRW before comparison; when the rate is
// unknown (nil) those samples are excluded entirely rather than compared at
// a wrong scale. Deviations stay at full float64 precision here; rounding
// happens only at the presentation boundary.
func Compute(rec model.AssetRecord, usdKRW *float64) model.SpreadSummary {
	sum := model.SpreadSummary{
		Code:        rec.Code,
		PerExchange: make(map[string]model.ExchangeSpread, len(rec.Samples)),
	}

	converted := make(map[string]float64, len(rec.Samples))
	for ex, s := range rec.Samples {
		p := s.Price
		if s.Quote != model.QuoteKRW {
			if usdKRW == nil {
				continue
			}
			p = s.Price * *usdKRW
		}
		converted[ex] = p
	}

	if len(converted) == 0 {
		return sum
	}

	min := 0.0
	first := true
	for _, p := range converted {
		if first || p < min {
			min = p
			first = false
		}
	}
	sum.MinPrice = min

	for ex, p := range converted {
		dev := 0.0
		if min > 0 {
			dev = (p - min) / min
		}
		sum.PerExchange[ex] = model.ExchangeSpread{Price: p, Deviation: dev}
		if dev > sum.MaxDeviation {
			sum.MaxDeviation = dev
		}
	}

	sum.Comparable = len(converted) >= 2
	return sum
}

// Rank projects a ledger snapshot into the ordered view: strictly descending
// by MaxDeviation, ties broken by code ascending. Assets with fewer than two
// usable prices have no spread to rank by and sort after everything else.
func Rank(snapshot map[string]model.AssetRecord, usdKRW *float64) []model.SpreadSummary {
	out := make([]model.SpreadSummary, 0, len(snapshot))
	for _, rec := range snapshot {
		out = append(out, Compute(rec, usdKRW))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Comparable != b.Comparable {
			return a.Comparable
		}
		if a.Comparable && a.MaxDeviation != b.MaxDeviation {
			return a.MaxDeviation > b.MaxDeviation
		}
		return a.Code < b.Code
	})
	return out
}
