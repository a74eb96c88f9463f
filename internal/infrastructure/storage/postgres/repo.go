package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"kimp/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS latest_prices (
  exchange TEXT NOT NULL,
  code     TEXT NOT NULL,
  price    DOUBLE PRECISION NOT NULL,
  ts_ms    BIGINT NOT NULL,
  PRIMARY KEY (exchange, code)
);
CREATE TABLE IF NOT EXISTS ranking_snapshots (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ranking_snapshots_ts ON ranking_snapshots(ts_ms);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, ex, code string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO latest_prices(exchange, code, price, ts_ms) VALUES($1, $2, $3, $4)
ON CONFLICT (exchange, code) DO UPDATE SET price=EXCLUDED.price, ts_ms=EXCLUDED.ts_ms
`, ex, code, price, ts)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO ranking_snapshots(ts_ms, payload) VALUES($1, $2)
`, ts, payload)
	return err
}

var _ port.Repository = (*Repo)(nil)
