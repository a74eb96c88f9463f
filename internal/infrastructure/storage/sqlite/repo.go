package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"kimp/internal/application/port"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writes; one conn avoids SQLITE_BUSY churn
	db.SetMaxOpenConns(1)

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
  price    REAL NOT NULL,
  ts_ms    INTEGER NOT NULL,
  PRIMARY KEY (exchange, code)
);
CREATE TABLE IF NOT EXISTS ranking_snapshots (
  id      INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms   INTEGER NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ranking_snapshots_ts ON ranking_snapshots(ts_ms);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, ex, code string, price float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO latest_prices(exchange, code, price, ts_ms) VALUES(?, ?, ?, ?)
ON CONFLICT(exchange, code) DO UPDATE SET price=excluded.price, ts_ms=excluded.ts_ms
`, ex, code, price, ts)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO ranking_snapshots(ts_ms, payload) VALUES(?, ?)
`, ts, payload)
	return err
}

var _ port.Repository = (*Repo)(nil)
