package port

import "context"

// RateSource fetches the foreign-fiat conversion rate (USD→KRW). Callers
// treat an error as "rate unknown", never as zero.
type RateSource interface {
	Rate(ctx context.Context) (float64, error)
}
