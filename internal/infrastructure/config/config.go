package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"kimp/internal/domain/service"
)

type ExchangeConfig struct {
	Enabled bool   `toml:"enabled"`
	WsURL   string `toml:"ws_url"`
	RestURL string `toml:"rest_url"`
}

type Config struct {
	App struct {
		RefreshMS          int     `toml:"refresh_ms"`
		SnapshotEveryMin   int     `toml:"snapshot_every_min"`
		HighlightThreshold float64 `toml:"highlight_threshold"`
		TopMovers          int     `toml:"top_movers"`
	} `toml:"app"`

	Universe struct {
		Policy   string `toml:"policy"` // "intersection" or "quorum"
		MinCount int    `toml:"min_count"`
	} `toml:"universe"`

	Exchange struct {
		Upbit   ExchangeConfig `toml:"upbit"`
		Bithumb ExchangeConfig `toml:"bithumb"`
		Binance ExchangeConfig `toml:"binance"`
	} `toml:"exchange"`

	Forex struct {
		URL string `toml:"url"`
	} `toml:"forex"`

	Storage struct {
		Driver string `toml:"driver"` // none|redis|sqlite|postgres|composite

		Redis struct {
			Addr   string `toml:"addr"`
			Prefix string `toml:"prefix"`
			TTLSec int    `toml:"ttl_sec"`
		} `toml:"redis"`

		Sqlite struct {
			Path string `toml:"path"`
		} `toml:"sqlite"`

		Postgres struct {
			DSN string `toml:"dsn"`
		} `toml:"postgres"`
	} `toml:"storage"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.RefreshMS <= 0 {
		cfg.App.RefreshMS = 500
	}
	if cfg.App.SnapshotEveryMin <= 0 {
		cfg.App.SnapshotEveryMin = 5
	}
	if cfg.App.HighlightThreshold <= 0 {
		cfg.App.HighlightThreshold = 0.01
	}
	if cfg.App.TopMovers <= 0 {
		cfg.App.TopMovers = 5
	}
	if strings.TrimSpace(cfg.Universe.Policy) == "" {
		cfg.Universe.Policy = service.PolicyQuorum
	}
	if cfg.Universe.MinCount <= 0 {
		cfg.Universe.MinCount = 2
	}
	if strings.TrimSpace(cfg.Storage.Driver) == "" {
		cfg.Storage.Driver = "none"
	}
}

func validate(cfg *Config) error {
	switch cfg.Universe.Policy {
	case service.PolicyIntersection, service.PolicyQuorum:
	default:
		return fmt.Errorf("universe.policy %q: want %q or %q",
			cfg.Universe.Policy, service.PolicyIntersection, service.PolicyQuorum)
	}

	for name, ex := range map[string]ExchangeConfig{
		"upbit":   cfg.Exchange.Upbit,
		"bithumb": cfg.Exchange.Bithumb,
		"binance": cfg.Exchange.Binance,
	} {
		if !ex.Enabled {
			continue
		}
		if strings.TrimSpace(ex.WsURL) == "" {
			return fmt.Errorf("exchange.%s.ws_url empty but enabled", name)
		}
		if strings.TrimSpace(ex.RestURL) == "" {
			return fmt.Errorf("exchange.%s.rest_url empty but enabled", name)
		}
	}

	switch cfg.Storage.Driver {
	case "none", "composite":
	case "redis":
		if strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
			return errors.New("storage.redis.addr empty")
		}
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.Sqlite.Path) == "" {
			return errors.New("storage.sqlite.path empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
			return errors.New("storage.postgres.dsn empty")
		}
	default:
		return fmt.Errorf("storage.driver %q unknown", cfg.Storage.Driver)
	}
	return nil
}
