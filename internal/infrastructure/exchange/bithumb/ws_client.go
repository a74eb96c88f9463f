package bithumb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kimp/internal/application"
	"kimp/internal/application/port"
	"kimp/internal/domain/model"
	"kimp/internal/infrastructure/exchange"

	"github.com/rs/zerolog/log"
)

// Feed owns Bithumb's single transaction-stream connection. Bithumb batches
// several trades into one message, so a single frame can move many assets.
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

func (f *Feed) Name() string { return application.ExchangeBithumb }

type subReq struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols"`
}

type txItem struct {
	Symbol    string `json:"symbol"`
	ContPrice string `json:"contPrice"`
}

type txMsg struct {
	Type    string `json:"type"`
	Content struct {
		List []txItem `json:"list"`
	} `json:"content"`
}

func (f *Feed) Subscribe(ctx context.Context, codes []string) (<-chan port.Tick, error) {
	if f.ws.URL == "" {
		return nil, errors.New("bithumb ws_url empty")
	}

	symbols := make([]string, 0, len(codes))
	for _, code := range codes {
		native, err := f.conv.ToNative(code)
		if err != nil {
			log.Warn().Str("feed", f.Name()).Str("code", code).Msg("unrecognized code skipped")
			continue
		}
		symbols = append(symbols, native)
	}
	if len(symbols) == 0 {
		return nil, errors.New("no valid codes for bithumb")
	}

	out := make(chan port.Tick, 1024)
	go f.run(ctx, symbols, out)
	return out, nil
}

func (f *Feed) run(ctx context.Context, symbols []string, out chan<- port.Tick) {
	defer close(out)

	conn, err := f.ws.Dial(ctx)
	if err != nil {
		log.Error().Str("feed", f.Name()).Err(err).Msg("ws dial failed")
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(subReq{Type: "transaction", Symbols: symbols}); err != nil {
		log.Error().Str("feed", f.Name()).Err(err).Msg("subscribe failed")
		return
	}
	log.Info().Str("feed", f.Name()).Int("codes", len(symbols)).Msg("ws connected & subscribed")

	err = exchange.ReadWithPing(ctx, conn, func(b []byte) {
		for _, tick := range f.parseTransactions(b) {
			// never leave a send pending past cancellation, out is about to close
			select {
			case out <- tick:
			case <-ctx.Done():
				return
			}
		}
	})

	if ctx.Err() != nil {
		return
	}
	log.Warn().Str("feed", f.Name()).Err(err).Msg("ws disconnected")
}

// parseTransactions decodes one message into zero or more ticks. Connection
// status messages and anything else without a "transaction" type tag yield
// nothing; individual list entries that fail to normalize or parse are
// dropped without affecting their batch siblings.
func (f *Feed) parseTransactions(b []byte) []port.Tick {
	var msg txMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil
	}
	if msg.Type != "transaction" || len(msg.Content.List) == 0 {
		return nil
	}

	ticks := make([]port.Tick, 0, len(msg.Content.List))
	for _, item := range msg.Content.List {
		code, err := f.conv.ToCanonical(item.Symbol)
		if err != nil {
			log.Debug().Str("feed", f.Name()).Str("native", item.Symbol).Msg("unrecognized code dropped")
			continue
		}
		pxs := strings.TrimSpace(item.ContPrice)
		pxn, err := strconv.ParseFloat(pxs, 64)
		if err != nil || pxn <= 0 {
			continue
		}
		ticks = append(ticks, port.Tick{
			Exchange: f.Name(),
			Code:     code,
			Quote:    model.QuoteKRW,
			PriceStr: pxs,
			PriceNum: pxn,
			Ts:       time.Now().UnixMilli(),
		})
	}
	return ticks
}
