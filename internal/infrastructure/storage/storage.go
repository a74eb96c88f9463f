package storage

import (
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"kimp/internal/application/port"
	"kimp/internal/infrastructure/config"
	"kimp/internal/infrastructure/storage/composite"
	"kimp/internal/infrastructure/storage/postgres"
	"kimp/internal/infrastructure/storage/redis"
	"kimp/internal/infrastructure/storage/sqlite"
)

// Open builds the repository selected by config. Driver "none" returns nil;
// the caller substitutes a noop. "composite" fans out to every backend with
// a configured endpoint.
func Open(cfg *config.Config) (port.Repository, error) {
	switch cfg.Storage.Driver {
	case "none":
		return nil, nil
	case "redis":
		return openRedis(cfg), nil
	case "sqlite":
		return sqlite.New(cfg.Storage.Sqlite.Path)
	case "postgres":
		return postgres.New(cfg.Storage.Postgres.DSN)
	case "composite":
		var repos []port.Repository
		if cfg.Storage.Redis.Addr != "" {
			repos = append(repos, openRedis(cfg))
		}
		if cfg.Storage.Sqlite.Path != "" {
			r, err := sqlite.New(cfg.Storage.Sqlite.Path)
			if err != nil {
				return nil, err
			}
			repos = append(repos, r)
		}
		if cfg.Storage.Postgres.DSN != "" {
			r, err := postgres.New(cfg.Storage.Postgres.DSN)
			if err != nil {
				return nil, err
			}
			repos = append(repos, r)
		}
		return composite.New(repos...), nil
	default:
		return nil, fmt.Errorf("storage driver %q unknown", cfg.Storage.Driver)
	}
}

func openRedis(cfg *config.Config) *redis.Repo {
	rdb := redisclient.NewClient(&redisclient.Options{Addr: cfg.Storage.Redis.Addr})
	ttl := time.Duration(cfg.Storage.Redis.TTLSec) * time.Second
	return redis.New(rdb, cfg.Storage.Redis.Prefix, ttl)
}
