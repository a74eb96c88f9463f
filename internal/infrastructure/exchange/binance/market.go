package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type exchangeInfoResp struct {
	Symbols []struct {
		Symbol     string `json:"symbol"`
		Status     string `json:"status"`
		QuoteAsset string `json:"quoteAsset"`
	} `json:"symbols"`
}

// Markets fetches the spot symbol list filtered to tradable USDT-quoted
// pairs, returned as canonical codes.
func (f *Feed) Markets(ctx context.Context) ([]string, error) {
	endpoint := strings.TrimRight(f.restURL, "/") + "/api/v3/exchangeInfo"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance markets http %d: %s", resp.StatusCode, string(body))
	}

	var parsed exchangeInfoResp
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("binance markets decode: %w", err)
	}

	codes := make([]string, 0, len(parsed.Symbols))
	for _, s := range parsed.Symbols {
		if s.Status != "TRADING" || s.QuoteAsset != quoteSuffix {
			continue
		}
		code, err := f.conv.ToCanonical(s.Symbol)
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}
