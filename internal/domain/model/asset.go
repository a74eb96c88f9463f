package model

// Quote units prices arrive in. Binance spot pairs are USDT quoted and need
// the USD→KRW rate before they can be compared with the Korean exchanges.
const (
	QuoteKRW  = "KRW"
	QuoteUSDT = "USDT"
)

// PriceSample is the last known price for one (asset, exchange) pair.
type PriceSample struct {
	Price float64
	Quote string
	Ts    int64 // unix ms
}

// AssetRecord aggregates the per-exchange samples for one canonical code
// (e.g. "KRW-BTC"). Samples is partial: a missing exchange key means that
// exchange has not reported yet, which is not the same as a zero price.
type AssetRecord struct {
	Code    string
	Samples map[string]PriceSample // exchange name -> sample
}

// ExchangeSpread is one exchange's converted price and its deviation from
// the cheapest exchange, as a signed fraction (0 at the minimum).
type ExchangeSpread struct {
	Price     float64
	Deviation float64
}

// SpreadSummary is a pure projection of one AssetRecord plus the current
// conversion rate. It is recomputed on demand, never stored or diffed.
type SpreadSummary struct {
	Code         string
	PerExchange  map[string]ExchangeSpread
	MinPrice     float64
	MaxDeviation float64
	// Comparable is false when fewer than two exchanges report a usable
	// price; such assets carry no meaningful spread and rank last.
	Comparable bool
}
