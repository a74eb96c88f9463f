package port

import "context"

// Repository persists operational state: the latest price per
// (exchange, code) pair and periodic ranking snapshots. Implementations
// must tolerate being called from the monitor loop on every tick.
type Repository interface {
	UpsertLatestPrice(ctx context.Context, ex, code string, price float64, ts int64) error
	InsertSnapshot(ctx context.Context, ts int64, payload string) error
	Close() error
}
