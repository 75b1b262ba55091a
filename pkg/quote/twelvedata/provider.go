package twelvedata

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketdesk-api/pkg/quote"
)

const defaultProviderTimeout = 10 * time.Second

// Provider adapts the Twelve Data client to quote.Provider.
type Provider struct {
	client     *Client
	timeout    time.Duration
	providerID string
}

type providerConfig struct {
	timeout      time.Duration
	clientConfig []Option
}

// ProviderOption customises the Twelve Data provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithClientOptions passes options to the underlying client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientConfig = append(cfg.clientConfig, options...)
	}
}

// NewProvider constructs a Twelve Data quote provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{timeout: defaultProviderTimeout}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Provider{
		client:  NewClient(cfg.clientConfig...),
		timeout: cfg.timeout,
	}
}

func init() {
	quote.RegisterProvider("twelvedata", func(name string, cfg *quote.ProviderConfig) (quote.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{WithAPIKey(cfg.APIKey)}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if cfg.MaxRetries > 0 {
			clientOptions = append(clientOptions, WithMaxRetries(cfg.MaxRetries))
		}
		opts = append(opts, WithClientOptions(clientOptions...))
		provider := NewProvider(opts...)
		provider.providerID = name
		return provider, nil
	})
}

// Name implements quote.Provider.
func (p *Provider) Name() string {
	if strings.TrimSpace(p.providerID) != "" {
		return p.providerID
	}
	return "twelvedata"
}

// CheckCredentials implements quote.Provider.
func (p *Provider) CheckCredentials() error {
	if !p.client.HasAPIKey() {
		return quote.ErrMissingCredentials
	}
	return nil
}

// Price implements quote.Provider.
func (p *Provider) Price(ctx context.Context, providerSymbol string) (decimal.Decimal, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetPrice(ctx, providerSymbol)
}

// DailyBars implements quote.Provider.
func (p *Provider) DailyBars(ctx context.Context, providerSymbol string, n int) ([]quote.Bar, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetDailySeries(ctx, providerSymbol, n)
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, p.timeout)
}
