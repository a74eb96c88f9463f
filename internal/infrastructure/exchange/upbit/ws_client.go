package upbit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"kimp/internal/application"
	"kimp/internal/application/port"
	"kimp/internal/domain/model"
	"kimp/internal/infrastructure/exchange"

	"github.com/rs/zerolog/log"
)

// Feed owns Upbit's single trade-stream connection. Upbit pushes one trade
// per binary frame after an array-shaped subscribe request.
type Feed struct {
	ws      exchange.WSHelper
	restURL string
	conv    exchange.Converter
	httpc   *http.Client
}

func New(wsURL, restURL string) *Feed {
	return &Feed{
		ws:      exchange.WSHelper{URL: strings.TrimSpace(wsURL)},
		restURL: strings.TrimSpace(restURL),
		conv:    SymbolConverter{},
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *Feed) Name() string { return application.ExchangeUpbit }

type subTicket struct {
	Ticket string `json:"ticket"`
}
type subBody struct {
	Type  string   `json:"type"`
	Codes []string `json:"codes"`
}
type subFormat struct {
	Format string `json:"format"`
}

type tradeMsg struct {
	Type       string      `json:"type"`
	Code       string      `json:"code"`
	TradePrice json.Number `json:"trade_price"`
}

func (f *Feed) Subscribe(ctx context.Context, codes []string) (<-chan port.Tick, error) {
	if f.ws.URL == "" {
		return nil, errors.New("upbit ws_url empty")
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
		return nil, errors.New("no valid codes for upbit")
	}

	out := make(chan port.Tick, 1024)
	go f.run(ctx, natives, out)
	return out, nil
}

// run opens the connection once and reads until the transport ends. There is
// no reconnect here: a dropped connection closes the channel and leaves the
// restart decision to the caller.
func (f *Feed) run(ctx context.Context, natives []string, out chan<- port.Tick) {
	defer close(out)

	conn, err := f.ws.Dial(ctx)
	if err != nil {
		log.Error().Str("feed", f.Name()).Err(err).Msg("ws dial failed")
		return
	}
	defer conn.Close()

	sub := []any{
		subTicket{Ticket: "kimp"},
		subBody{Type: "trade", Codes: natives},
		subFormat{Format: "DEFAULT"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		log.Error().Str("feed", f.Name()).Err(err).Msg("subscribe failed")
		return
	}
	log.Info().Str("feed", f.Name()).Int("codes", len(natives)).Msg("ws connected & subscribed")

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
	log.Warn().Str("feed", f.Name()).Err(err).Msg("ws disconnected")
}

// parseTrade decodes one frame. Frames that are not trade events, or whose
// code does not normalize, are dropped without failing the feed.
func (f *Feed) parseTrade(b []byte) (port.Tick, bool) {
	var msg tradeMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return port.Tick{}, false
	}
	if msg.Type != "trade" {
		return port.Tick{}, false
	}

	code, err := f.conv.ToCanonical(msg.Code)
	if err != nil {
		log.Debug().Str("feed", f.Name()).Str("native", msg.Code).Msg("unrecognized code dropped")
		return port.Tick{}, false
	}

	pxs := msg.TradePrice.String()
	pxn, err := msg.TradePrice.Float64()
	if err != nil || pxn <= 0 {
		return port.Tick{}, false
	}

	return port.Tick{
		Exchange: f.Name(),
		Code:     code,
		Quote:    model.QuoteKRW,
		PriceStr: pxs,
		PriceNum: pxn,
		Ts:       time.Now().UnixMilli(),
	}, true
}
