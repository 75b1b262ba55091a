package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"marketdesk-api/pkg/quote"
)

const (
	defaultBaseURL     = "https://api.twelvedata.com"
	defaultHTTPTimeout = 15 * time.Second
	dailyInterval      = "1day"
	maxOutputSize      = 5000
)

// Client wraps access to the Twelve Data REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	rc         *resty.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client (used for recorded transports in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default API root.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithAPIKey sets the apikey query parameter.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithMaxRetries adjusts the transport-level retry budget. Defaults to zero:
// failed pairs are picked up again by the next scheduled sync.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// NewClient constructs a Twelve Data API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.rc = resty.NewWithClient(client.httpClient).
		SetBaseURL(client.baseURL).
		SetRetryCount(client.maxRetries).
		SetHeader("Accept", "application/json")
	return client
}

// HasAPIKey reports whether an API key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// GetPrice returns the latest traded price for symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var payload priceResponse
	if err := c.get(ctx, "/price", map[string]string{"symbol": symbol}, &payload); err != nil {
		return decimal.Zero, err
	}
	if strings.EqualFold(payload.Status, "error") {
		return decimal.Zero, fmt.Errorf("%w: price %s: code=%d %s", quote.ErrProviderStatus, symbol, payload.Code, payload.Message)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(payload.Price))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price %s: %q", quote.ErrInvalidPrice, symbol, payload.Price)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: price %s: %s", quote.ErrInvalidPrice, symbol, price)
	}
	return price, nil
}

// GetDailySeries fetches up to outputSize daily bars, returned oldest first.
func (c *Client) GetDailySeries(ctx context.Context, symbol string, outputSize int) ([]quote.Bar, error) {
	if outputSize <= 0 {
		return nil, fmt.Errorf("twelvedata: output size must be positive")
	}
	if outputSize > maxOutputSize {
		outputSize = maxOutputSize
	}
	params := map[string]string{
		"symbol":     symbol,
		"interval":   dailyInterval,
		"outputsize": strconv.Itoa(outputSize),
	}
	var payload timeSeriesResponse
	if err := c.get(ctx, "/time_series", params, &payload); err != nil {
		return nil, err
	}
	if strings.EqualFold(payload.Status, "error") {
		return nil, fmt.Errorf("%w: time_series %s: code=%d %s", quote.ErrProviderStatus, symbol, payload.Code, payload.Message)
	}
	if len(payload.Values) == 0 {
		return nil, fmt.Errorf("%w: %s", quote.ErrEmptySeries, symbol)
	}

	bars := make([]quote.Bar, 0, len(payload.Values))
	for _, v := range payload.Values {
		bar, err := toBar(v)
		if err != nil {
			return nil, fmt.Errorf("twelvedata: time_series %s: %w", symbol, err)
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
	if len(bars) > outputSize {
		bars = bars[len(bars)-outputSize:]
	}
	return bars, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, result any) error {
	req := c.rc.R().SetContext(ctx).SetQueryParams(params)
	if c.apiKey != "" {
		req.SetQueryParam("apikey", c.apiKey)
	}
	resp, err := req.Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("twelvedata: request %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("twelvedata: http status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("twelvedata: decode %s: %w", path, err)
	}
	return nil
}

func toBar(v seriesValue) (quote.Bar, error) {
	date, err := parseDatetime(v.Datetime)
	if err != nil {
		return quote.Bar{}, err
	}
	fields := [4]decimal.Decimal{}
	for i, raw := range []string{v.Open, v.High, v.Low, v.Close} {
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return quote.Bar{}, fmt.Errorf("bar %s: invalid number %q", v.Datetime, raw)
		}
		fields[i] = d
	}
	bar := quote.Bar{
		Date:  date,
		Open:  fields[0],
		High:  fields[1],
		Low:   fields[2],
		Close: fields[3],
	}
	if vol := strings.TrimSpace(v.Volume); vol != "" {
		if d, err := decimal.NewFromString(vol); err == nil {
			n := d.IntPart()
			if n >= 0 {
				bar.Volume = &n
			}
		}
	}
	return bar, nil
}

func parseDatetime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", raw)
}
