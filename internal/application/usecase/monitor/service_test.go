package monitor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"kimp/internal/application/port"
	"kimp/internal/domain/service"
)

type fakeExchange struct {
	name       string
	markets    []string
	marketsErr error
	ticks      []port.Tick

	mu         sync.Mutex
	subscribed []string
}

func (f *fakeExchange) Name() string { return f.name }

func (f *fakeExchange) Markets(ctx context.Context) ([]string, error) {
	return f.markets, f.marketsErr
}

func (f *fakeExchange) Subscribe(ctx context.Context, codes []string) (<-chan port.Tick, error) {
	f.mu.Lock()
	f.subscribed = append([]string(nil), codes...)
	f.mu.Unlock()

	out := make(chan port.Tick, len(f.ticks))
	for _, t := range f.ticks {
		out <- t
	}
	return out, nil
}

func (f *fakeExchange) subscribedCodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribed
}

type fakeRates struct {
	rate float64
	err  error
}

func (f *fakeRates) Rate(ctx context.Context) (float64, error) { return f.rate, f.err }

type fakeSink struct {
	mu       sync.Mutex
	live     []string
	newlines int
}

func (f *fakeSink) WriteLive(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live = append(f.live, line)
	return nil
}

func (f *fakeSink) WriteSnapshot(ts time.Time, lines []string) error { return nil }

func (f *fakeSink) NewLine() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newlines++
	return nil
}

func (f *fakeSink) lastLive() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.live) == 0 {
		return "", false
	}
	return f.live[len(f.live)-1], true
}

type recordingRepo struct {
	mu      sync.Mutex
	upserts []string
	first   chan struct{}
	once    sync.Once
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{first: make(chan struct{})}
}

func (r *recordingRepo) UpsertLatestPrice(ctx context.Context, ex, code string, price float64, ts int64) error {
	r.mu.Lock()
	r.upserts = append(r.upserts, ex+"/"+code)
	r.mu.Unlock()
	r.once.Do(func() { close(r.first) })
	return nil
}

func (r *recordingRepo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	return nil
}

func (r *recordingRepo) Close() error { return nil }

func newTestService(deps ServiceDeps) *Service {
	if deps.UniversePolicy == "" {
		deps.UniversePolicy = service.PolicyIntersection
	}
	if deps.RefreshMS == 0 {
		deps.RefreshMS = 5
	}
	if deps.SnapshotEveryMin == 0 {
		deps.SnapshotEveryMin = 60
	}
	if deps.Sink == nil {
		deps.Sink = &fakeSink{}
	}
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	f := NewFormatter(0.01, 5, []string{"upbit", "binance"})
	return NewService(deps, f)
}

func TestRunSubscribesResolvedUniverse(t *testing.T) {
	upbit := &fakeExchange{
		name:    "upbit",
		markets: []string{"KRW-BTC", "KRW-ETH", "KRW-DOGE"},
		ticks: []port.Tick{
			{Exchange: "upbit", Code: "KRW-BTC", Quote: "KRW", PriceNum: 81810000, Ts: 1},
		},
	}
	binance := &fakeExchange{
		name:    "binance",
		markets: []string{"KRW-BTC", "KRW-ETH", "KRW-SOL"},
		ticks: []port.Tick{
			{Exchange: "binance", Code: "KRW-BTC", Quote: "USDT", PriceNum: 60000, Ts: 1},
		},
	}
	sink := &fakeSink{}
	repo := newRecordingRepo()
	rate := 1350.0

	svc := newTestService(ServiceDeps{
		Exchanges: []port.Exchange{upbit, binance},
		Rates:     &fakeRates{rate: rate},
		Sink:      sink,
		Repo:      repo,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	select {
	case <-repo.first:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick reached the repository")
	}

	// let at least one refresh interval elapse so the live line publishes
	deadline := time.Now().Add(2 * time.Second)
	for {
		if line, ok := sink.lastLive(); ok {
			if !strings.Contains(line, "KRW-BTC") {
				t.Errorf("live line missing comparable asset: %q", line)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("live line never published")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	want := []string{"KRW-BTC", "KRW-ETH"}
	for _, ex := range []*fakeExchange{upbit, binance} {
		got := ex.subscribedCodes()
		sort.Strings(got)
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("%s subscribed to %v, want %v", ex.name, got, want)
		}
	}

	sink.mu.Lock()
	newlines := sink.newlines
	sink.mu.Unlock()
	if newlines != 1 {
		t.Errorf("expected one terminating newline, got %d", newlines)
	}
}

func TestRunExcludesFailedListing(t *testing.T) {
	healthy := &fakeExchange{name: "upbit", markets: []string{"KRW-BTC", "KRW-ETH"}}
	broken := &fakeExchange{name: "bithumb", marketsErr: errors.New("http 500")}

	svc := newTestService(ServiceDeps{
		Exchanges:        []port.Exchange{healthy, broken},
		Rates:            &fakeRates{rate: 1350},
		UniversePolicy:   service.PolicyQuorum,
		UniverseMinCount: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for len(healthy.subscribedCodes()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("healthy exchange never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	got := healthy.subscribedCodes()
	sort.Strings(got)
	if len(got) != 2 || got[0] != "KRW-BTC" || got[1] != "KRW-ETH" {
		t.Errorf("expected quorum over the surviving listing, got %v", got)
	}
}

func TestRunEmptyUniverseStaysUp(t *testing.T) {
	a := &fakeExchange{name: "upbit", markets: []string{"KRW-BTC"}}
	b := &fakeExchange{name: "binance", markets: []string{"KRW-ETH"}}

	svc := newTestService(ServiceDeps{
		Exchanges: []port.Exchange{a, b},
		Rates:     &fakeRates{err: errors.New("forex down")},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected clean shutdown via context, got %v", err)
	}
	if got := a.subscribedCodes(); got != nil {
		t.Errorf("no subscription expected for an empty intersection, got %v", got)
	}
}

func TestRunNoExchanges(t *testing.T) {
	svc := newTestService(ServiceDeps{})
	if err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error when no exchanges are configured")
	}
}
