package bithumb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type tickerAllResp struct {
	Status string                     `json:"status"`
	Data   map[string]json.RawMessage `json:"data"`
}

// Markets fetches the KRW market list. The response keys the ticker map by
// bare base symbol and carries a "date" field beside the markets; anything
// that is not a market is skipped via normalization.
func (f *Feed) Markets(ctx context.Context) ([]string, error) {
	endpoint := strings.TrimRight(f.restURL, "/") + "/public/ticker/ALL_KRW"

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
		return nil, fmt.Errorf("bithumb markets http %d: %s", resp.StatusCode, string(body))
	}

	var parsed tickerAllResp
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("bithumb markets decode: %w", err)
	}
	if parsed.Status != "0000" {
		return nil, fmt.Errorf("bithumb markets status %q", parsed.Status)
	}

	codes := make([]string, 0, len(parsed.Data))
	for base := range parsed.Data {
		if strings.EqualFold(base, "date") {
			continue
		}
		code, err := f.conv.ToCanonical(base + "_KRW")
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}
