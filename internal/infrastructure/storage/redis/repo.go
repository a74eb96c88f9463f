package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"kimp/internal/application/port"
)

type Repo struct {
	rdb        *redis.Client
	prefix     string
	ttl        time.Duration
	keyLatest  string // prefix + ":latest"
	snapStream string // prefix + ":snapshots"
}

type LatestPrice struct {
	Exchange string  `json:"exchange"`
	Code     string  `json:"code"`
	Price    float64 `json:"price"`
	Ts       int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "kimp"
	}
	return &Repo{
		rdb:        rdb,
		prefix:     prefix,
		ttl:        ttl,
		keyLatest:  prefix + ":latest",
		snapStream: prefix + ":snapshots",
	}
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, ex, code string, price float64, ts int64) error {
	if price <= 0 {
		return nil
	}
	lp := LatestPrice{Exchange: ex, Code: code, Price: price, Ts: ts}
	b, _ := json.Marshal(lp)

	// Hash: field = "upbit:KRW-BTC" -> json
	field := fmt.Sprintf("%s:%s", ex, code)
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, field, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.snapStream,
		Values: map[string]any{
			"ts_ms":   ts,
			"payload": payload,
		},
	}).Result()
	return err
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Repository = (*Repo)(nil)
