package domain

import (
	"strings"
	"sync"

	"kimp/internal/domain/model"
)

// Ledger is the shared aggregate price store: canonical code -> per-exchange
// last known price. It is the only mutable shared state in the process and
// Apply is its only mutation entry point.
type Ledger struct {
	mu     sync.RWMutex
	assets map[string]*model.AssetRecord
}

func NewLedger() *Ledger {
	return &Ledger{assets: make(map[string]*model.AssetRecord)}
}

// Apply records the latest price for an (asset, exchange) pair, creating the
// asset record lazily on first sight. A later call for the same pair always
// overwrites the earlier one. Returns whether the stored price changed.
func (l *Ledger) Apply(exchange, code, quote string, price float64, ts int64) bool {
	ex := strings.ToLower(strings.TrimSpace(exchange))
	code = strings.ToUpper(strings.TrimSpace(code))
	if ex == "" || code == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.assets[code]
	if rec == nil {
		rec = &model.AssetRecord{
			Code:    code,
			Samples: make(map[string]model.PriceSample, 3),
		}
		l.assets[code] = rec
	}

	prev, seen := rec.Samples[ex]
	rec.Samples[ex] = model.PriceSample{Price: price, Quote: quote, Ts: ts}
	return !seen || prev.Price != price
}

// Snapshot returns a deep copy of the current state. Readers never observe a
// half-applied update and cannot mutate the live records.
func (l *Ledger) Snapshot() map[string]model.AssetRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]model.AssetRecord, len(l.assets))
	for code, rec := range l.assets {
		samples := make(map[string]model.PriceSample, len(rec.Samples))
		for ex, s := range rec.Samples {
			samples[ex] = s
		}
		out[code] = model.AssetRecord{Code: rec.Code, Samples: samples}
	}
	return out
}

// Len reports how many assets have at least one sample.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.assets)
}
