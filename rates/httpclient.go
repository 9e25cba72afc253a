package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public exchangerate-api endpoint; the base
// currency code is appended as the final path segment.
const DefaultBaseURL = "https://api.exchangerate-api.com/v4/latest"

// Client fetches live rates over HTTP.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client against baseURL (DefaultBaseURL when empty)
// with a 10s request timeout.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ratesResponse mirrors the exchangerate-api payload. Quotes decode
// straight into decimals.
type ratesResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (c *Client) Rates(ctx context.Context, base string) (*Table, error) {
	if _, ok := Currencies[base]; !ok {
		return nil, fmt.Errorf("base %s: %w", base, ErrUnknownCurrency)
	}

	url := fmt.Sprintf("%s/%s", c.BaseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w: %v", ErrUnavailable, err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("empty rate table: %w", ErrUnavailable)
	}

	return &Table{
		Base:      payload.Base,
		Date:      payload.Date,
		Quotes:    payload.Rates,
		FetchedAt: time.Now(),
	}, nil
}
