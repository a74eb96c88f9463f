package binance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"kimp/internal/application"
	"kimp/internal/application/port"
	"kimp/internal/domain/model"
	"kimp/internal/infrastructure/exchange"

	"github.com/rs/zerolog/log"
)

// Feed streams Binance spot trades. Binance's raw trade streams are
// URL-templated per symbol with no subscribe handshake, so the feed holds
// one connection per asset; all of them share the out channel, which closes
// once the last connection ends.
type Feed struct {
	wsURL   string // e.g. wss://stream.binance.com:9443
	restURL string
	conv    exchange.Converter
	httpc   *http.Client
}

func New(wsURL, restURL string) *Feed {
	return &Feed{
		wsURL:   strings.TrimRight(strings.TrimSpace(wsURL), "/"),
		restURL: strings.TrimSpace(restURL),
		conv:    SymbolConverter{},
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *Feed) Name() string { return application.ExchangeBinance }

type tradeMsg struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Price     string `json:"p"`
}

func (f *Feed) Subscribe(ctx context.Context, codes []string) (<-chan port.Tick, error) {
	if f.wsURL == "" {
		return nil, errors.New("binance ws_url empty")
	}

	natives := make([]string, 0, len(codes))
	for _, code := range codes {
		native, err := f.conv.ToNative(code)
		if err != nil {
			log.Warn().Str("feed", f.Name()).Str("code", code).Msg("unrecognized code skipped")
			continue
		}
		natives = append(natives, native)
	}
	if len(natives) == 0 {
		return nil, errors.New("no valid codes for binance")
	}

	out := make(chan port.Tick, 1024)

	var wg sync.WaitGroup
	for _, native := range natives {
		wg.Add(1)
		go func(native string) {
			defer wg.Done()
			f.runOne(ctx, native, out)
		}(native)
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func (f *Feed) runOne(ctx context.Context, native string, out chan<- port.Tick) {
	ws := exchange.WSHelper{URL: f.wsURL + "/ws/" + streamSymbol(native) + "@trade"}

	conn, err := ws.Dial(ctx)
	if err != nil {
		log.Error().Str("feed", f.Name()).Str("symbol", native).Err(err).Msg("ws dial failed")
		return
	}
	defer conn.Close()

	log.Info().Str("feed", f.Name()).Str("symbol", native).Msg("ws connected")

	err = exchange.ReadWithPing(ctx, conn, func(b []byte) {
		tick, ok := f.parseTrade(b)
		if !ok {
			return
		}
		// never leave a send pending past cancellation, out is about to close
		select {
		case out <- tick:
		case <-ctx.Done():
		}
	})

	if ctx.Err() != nil {
		return
	}
	log.Warn().Str("feed", f.Name()).Str("symbol", native).Err(err).Msg("ws disconnected")
}

func (f *Feed) parseTrade(b []byte) (port.Tick, bool) {
	var msg tradeMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return port.Tick{}, false
	}
	if msg.EventType != "trade" {
		return port.Tick{}, false
	}

	code, err := f.conv.ToCanonical(msg.Symbol)
	if err != nil {
		log.Debug().Str("feed", f.Name()).Str("native", msg.Symbol).Msg("unrecognized code dropped")
		return port.Tick{}, false
	}

	pxs := strings.TrimSpace(msg.Price)
	pxn, err := strconv.ParseFloat(pxs, 64)
	if err != nil || pxn <= 0 {
		return port.Tick{}, false
	}

	return port.Tick{
		Exchange: f.Name(),
		Code:     code,
		Quote:    model.QuoteUSDT,
		PriceStr: pxs,
		PriceNum: pxn,
		Ts:       time.Now().UnixMilli(),
	}, true
}
