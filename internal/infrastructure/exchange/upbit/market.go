package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type marketEntry struct {
	Market string `json:"market"`
}

// Markets fetches the exchange's market list and returns the KRW markets as
// canonical codes. Upbit lists BTC- and USDT-quoted markets too; only the
// KRW ones participate in the premium comparison.
func (f *Feed) Markets(ctx context.Context) ([]string, error) {
	endpoint := strings.TrimRight(f.restURL, "/") + "/v1/market/all?isDetails=false"

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
		return nil, fmt.Errorf("upbit markets http %d: %s", resp.StatusCode, string(body))
	}

	var entries []marketEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("upbit markets decode: %w", err)
	}

	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		if !strings.HasPrefix(e.Market, "KRW-") {
			continue
		}
		code, err := f.conv.ToCanonical(e.Market)
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}
