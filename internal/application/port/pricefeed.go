package port

import "context"

// Tick is one normalized price event. Code is always canonical ("KRW-BTC");
// feeds translate native identifiers before emitting and drop anything they
// cannot translate.
type Tick struct {
	Exchange string  // "upbit" "bithumb" "binance"
	Code     string  // canonical asset code
	Quote    string  // unit the price is denominated in ("KRW", "USDT")
	PriceStr string  // raw string as delivered
	PriceNum float64 // parsed float64
	Ts       int64   // unix ms
}

// Exchange is one venue: a one-shot market listing plus a long-lived
// streaming subscription. Subscribe owns its connection(s) for the lifetime
// of ctx and closes the returned channel when the transport ends; it does
// not reconnect on its own.
type Exchange interface {
	Name() string
	// Markets returns the exchange's tradable assets as canonical codes.
	Markets(ctx context.Context) ([]string, error)
	// Subscribe opens the feed for the given canonical codes.
	Subscribe(ctx context.Context, codes []string) (<-chan Tick, error)
}
