package quote

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingCredentials indicates the provider cannot be used because its API key is absent.
	ErrMissingCredentials = errors.New("quote: missing provider credentials")
	// ErrProviderStatus wraps a response body that reports status "error" on a 2xx reply.
	ErrProviderStatus = errors.New("quote: provider reported error")
	// ErrEmptySeries indicates the provider returned no bars.
	ErrEmptySeries = errors.New("quote: empty time series")
	// ErrInvalidPrice indicates a non-numeric or non-positive price value.
	ErrInvalidPrice = errors.New("quote: invalid price")
)

// Provider exposes read-only access to an upstream quote source.
type Provider interface {
	// Name returns the configured provider identifier.
	Name() string
	// CheckCredentials reports ErrMissingCredentials when the provider cannot authenticate.
	CheckCredentials() error
	// Price returns the current price for the provider-specific symbol.
	Price(ctx context.Context, providerSymbol string) (decimal.Decimal, error)
	// DailyBars returns at most n daily bars ordered oldest to newest.
	DailyBars(ctx context.Context, providerSymbol string, n int) ([]Bar, error)
}

// Bar is a single daily OHLCV observation.
type Bar struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume *int64 // nil when the instrument has no traded volume (FX)
}
