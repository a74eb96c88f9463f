package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"kimp/internal/application/usecase/monitor"
	"kimp/internal/infrastructure/config"
	"kimp/internal/infrastructure/factory"
	"kimp/internal/infrastructure/forex"
	"kimp/internal/infrastructure/logger"
	"kimp/internal/infrastructure/storage"
	"kimp/internal/interfaces/console"

	_ "kimp/internal/infrastructure/exchange/binance"
	_ "kimp/internal/infrastructure/exchange/bithumb"
	_ "kimp/internal/infrastructure/exchange/upbit"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exchanges := factory.BuildExchanges(cfg)
	if len(exchanges) == 0 {
		log.Fatal().Msg("no exchanges enabled")
	}

	repo, err := storage.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("open storage failed")
	}
	if repo == nil {
		repo = monitor.NewNoopRepo()
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("close storage failed")
		}
	}()

	f := monitor.NewFormatter(cfg.App.HighlightThreshold, cfg.App.TopMovers, factory.EnabledNames(cfg))

	svc := monitor.NewService(monitor.ServiceDeps{
		Exchanges:        exchanges,
		Rates:            forex.New(cfg.Forex.URL),
		UniversePolicy:   cfg.Universe.Policy,
		UniverseMinCount: cfg.Universe.MinCount,
		RefreshMS:        cfg.App.RefreshMS,
		SnapshotEveryMin: cfg.App.SnapshotEveryMin,
		Sink:             console.NewSink(),
		Repo:             repo,
	}, f)

	log.Info().
		Str("config", *configPath).
		Int("exchanges", len(exchanges)).
		Str("universe_policy", cfg.Universe.Policy).
		Str("storage", cfg.Storage.Driver).
		Msg("kimp started")

	if err := svc.Run(ctx); err != nil {
		log.Error().Err(err).Msg("monitor service exited")
	}
}
