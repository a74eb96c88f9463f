package forex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches the USD→KRW conversion rate from a forex quote endpoint.
// The rate is fetched once per session; any failure means "rate unknown" to
// the caller, never zero.
type Client struct {
	url   string
	httpc *http.Client
}

func New(url string) *Client {
	return &Client{
		url:   strings.TrimSpace(url),
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

type quote struct {
	BasePrice float64 `json:"basePrice"`
}

func (c *Client) Rate(ctx context.Context) (float64, error) {
	if c.url == "" {
		return 0, errors.New("forex url empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("forex http %d: %s", resp.StatusCode, string(body))
	}

	var quotes []quote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return 0, fmt.Errorf("forex decode: %w", err)
	}
	if len(quotes) == 0 || quotes[0].BasePrice <= 0 {
		return 0, errors.New("forex quote missing base price")
	}
	return quotes[0].BasePrice, nil
}
