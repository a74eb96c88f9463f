package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"kimp/internal/application/port"
	"kimp/internal/domain"
	"kimp/internal/domain/service"

	"github.com/rs/zerolog/log"
)

type ServiceDeps struct {
	Exchanges        []port.Exchange
	Rates            port.RateSource
	UniversePolicy   string
	UniverseMinCount int
	RefreshMS        int
	SnapshotEveryMin int
	Sink             port.Sink
	Repo             port.Repository
}

type Service struct {
	deps   ServiceDeps
	ledger *domain.Ledger
	fmt    *Formatter
}

func NewService(deps ServiceDeps, f *Formatter) *Service {
	return &Service{
		deps:   deps,
		ledger: domain.NewLedger(),
		fmt:    f,
	}
}

// Run drives the whole session: resolve the asset universe, fetch the
// conversion rate, open every feed, then apply ticks to the ledger and
// republish the ranking until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if len(s.deps.Exchanges) == 0 {
		return errors.New("no exchanges")
	}

	listings, rate := s.fetchStartup(ctx)

	universe := service.ResolveUniverse(listings, s.deps.UniversePolicy, s.deps.UniverseMinCount)
	log.Info().
		Str("policy", s.deps.UniversePolicy).
		Int("assets", len(universe)).
		Msg("universe resolved")

	merged := make(chan port.Tick, 1024)
	if len(universe) == 0 {
		log.Warn().Msg("empty universe, no subscriptions opened")
	} else {
		s.startFeeds(ctx, universe, merged)
	}

	refresh := time.NewTicker(time.Duration(s.deps.RefreshMS) * time.Millisecond)
	defer refresh.Stop()
	snapTicker := time.NewTicker(time.Duration(s.deps.SnapshotEveryMin) * time.Minute)
	defer snapTicker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			_ = s.deps.Sink.NewLine()
			return ctx.Err()

		case t := <-merged:
			if s.ledger.Apply(t.Exchange, t.Code, t.Quote, t.PriceNum, t.Ts) {
				dirty = true
			}
			if t.PriceNum > 0 {
				_ = s.deps.Repo.UpsertLatestPrice(ctx, t.Exchange, t.Code, t.PriceNum, t.Ts)
			}

		case <-refresh.C:
			// coalesce: many ticks, at most one recompute per interval
			if !dirty {
				continue
			}
			dirty = false
			board := service.Rank(s.ledger.Snapshot(), rate)
			_ = s.deps.Sink.WriteLive(s.fmt.RenderLive(board))

		case now := <-snapTicker.C:
			board := service.Rank(s.ledger.Snapshot(), rate)
			_ = s.deps.Sink.WriteSnapshot(now, s.fmt.RenderTable(board))
			if payload, err := json.Marshal(board); err == nil {
				_ = s.deps.Repo.InsertSnapshot(ctx, now.UnixMilli(), string(payload))
			}
		}
	}
}

// fetchStartup runs the one-shot listing and rate fetches concurrently and
// joins them before any subscription is sent. A failed listing excludes that
// exchange from resolution; a failed rate fetch leaves the rate unknown.
func (s *Service) fetchStartup(ctx context.Context) ([]service.Listing, *float64) {
	type listingResult struct {
		name  string
		codes []string
		err   error
	}

	results := make([]listingResult, len(s.deps.Exchanges))
	var rateVal float64
	rateErr := errors.New("no rate source")

	var wg sync.WaitGroup
	for i, ex := range s.deps.Exchanges {
		wg.Add(1)
		go func(i int, ex port.Exchange) {
			defer wg.Done()
			codes, err := ex.Markets(ctx)
			results[i] = listingResult{name: ex.Name(), codes: codes, err: err}
		}(i, ex)
	}
	if s.deps.Rates != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rateVal, rateErr = s.deps.Rates.Rate(ctx)
		}()
	}
	wg.Wait()

	listings := make([]service.Listing, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			log.Warn().Str("exchange", r.name).Err(r.err).Msg("listing fetch failed, excluded from universe")
			continue
		}
		log.Info().Str("exchange", r.name).Int("markets", len(r.codes)).Msg("listing fetched")
		listings = append(listings, service.Listing{Exchange: r.name, Codes: r.codes})
	}

	var rate *float64
	if rateErr != nil {
		log.Warn().Err(rateErr).Msg("conversion rate unavailable, foreign-quoted prices excluded")
	} else {
		rate = &rateVal
		log.Info().Float64("usd_krw", rateVal).Msg("conversion rate fetched")
	}
	return listings, rate
}

func (s *Service) startFeeds(ctx context.Context, universe []string, merged chan<- port.Tick) {
	for _, ex := range s.deps.Exchanges {
		ch, err := ex.Subscribe(ctx, universe)
		if err != nil {
			log.Error().Str("feed", ex.Name()).Err(err).Msg("subscribe failed")
			continue
		}
		go func(name string, in <-chan port.Tick) {
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-in:
					if !ok {
						log.Warn().Str("feed", name).Msg("feed ended")
						return
					}
					merged <- t
				}
			}
		}(ex.Name(), ch)
		log.Info().Str("feed", ex.Name()).Msg("feed started")
	}
}
