package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client queries an exchangeratesapi.io style endpoint:
//
//	GET {BaseURL}/{YYYY-MM-DD}?base=USD
//	{"base":"USD","date":"2014-03-14","rates":{"GBP":0.6,...}}
type Client struct {
	baseURL   string
	base      string
	accessKey string
	client    *http.Client
}

// NewClient returns a client quoting rates against base.
func NewClient(baseURL, base, accessKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		base:      base,
		accessKey: accessKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type ratesResponse struct {
	Base    string             `json:"base"`
	Date    string             `json:"date"`
	Rates   map[string]float64 `json:"rates"`
	Success *bool              `json:"success"`
	Error   json.RawMessage    `json:"error"`
}

func (c *Client) Rates(ctx context.Context, date time.Time) (map[string]float64, error) {
	q := url.Values{}
	q.Set("base", c.base)

	if c.accessKey != "" {
		q.Set("access_key", c.accessKey)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, date.Format(time.DateOnly), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if payload.Success != nil && !*payload.Success {
		return nil, fmt.Errorf("rate service error: %s", string(payload.Error))
	}

	if payload.Base != "" && !strings.EqualFold(payload.Base, c.base) {
		return nil, fmt.Errorf("rates quoted against %s, asked for %s", payload.Base, c.base)
	}

	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("no rates for %s", date.Format(time.DateOnly))
	}

	return payload.Rates, nil
}
