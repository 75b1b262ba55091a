package sim

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"marketdesk-api/pkg/quote"
)

// Provider is an in-memory quote source with seeded prices and bar series.
// It is used by tests and by the "sim" provider type for offline runs.
type Provider struct {
	mu sync.Mutex

	name        string
	credentials bool

	prices     map[string]decimal.Decimal
	bars       map[string][]quote.Bar
	priceErrs  map[string]error
	seriesErrs map[string]error

	priceCalls  map[string]int
	seriesCalls map[string]int
}

// New constructs an empty simulator with credentials configured.
func New() *Provider {
	return &Provider{
		name:        "sim",
		credentials: true,
		prices:      make(map[string]decimal.Decimal),
		bars:        make(map[string][]quote.Bar),
		priceErrs:   make(map[string]error),
		seriesErrs:  make(map[string]error),
		priceCalls:  make(map[string]int),
		seriesCalls: make(map[string]int),
	}
}

func init() {
	quote.RegisterProvider("sim", func(name string, cfg *quote.ProviderConfig) (quote.Provider, error) {
		p := New()
		p.name = name
		return p, nil
	})
}

func canonical(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// SetPrice seeds the current price for symbol.
func (p *Provider) SetPrice(symbol string, price decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[canonical(symbol)] = price
	delete(p.priceErrs, canonical(symbol))
}

// SetBars seeds the daily series for symbol; order does not matter.
func (p *Provider) SetBars(symbol string, bars []quote.Bar) {
	clone := make([]quote.Bar, len(bars))
	copy(clone, bars)
	sort.Slice(clone, func(i, j int) bool { return clone[i].Date.Before(clone[j].Date) })
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bars[canonical(symbol)] = clone
	delete(p.seriesErrs, canonical(symbol))
}

// FailPrice makes Price return err for symbol.
func (p *Provider) FailPrice(symbol string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.priceErrs[canonical(symbol)] = err
}

// FailSeries makes DailyBars return err for symbol.
func (p *Provider) FailSeries(symbol string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seriesErrs[canonical(symbol)] = err
}

// SetCredentials toggles the CheckCredentials outcome.
func (p *Provider) SetCredentials(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.credentials = ok
}

// PriceCalls returns how many times Price was called for symbol.
func (p *Provider) PriceCalls(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.priceCalls[canonical(symbol)]
}

// SeriesCalls returns how many times DailyBars was called for symbol.
func (p *Provider) SeriesCalls(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seriesCalls[canonical(symbol)]
}

// Name implements quote.Provider.
func (p *Provider) Name() string { return p.name }

// CheckCredentials implements quote.Provider.
func (p *Provider) CheckCredentials() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.credentials {
		return quote.ErrMissingCredentials
	}
	return nil
}

// Price implements quote.Provider.
func (p *Provider) Price(ctx context.Context, providerSymbol string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	key := canonical(providerSymbol)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.priceCalls[key]++
	if err := p.priceErrs[key]; err != nil {
		return decimal.Zero, err
	}
	price, ok := p.prices[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: sim: unknown symbol %s", quote.ErrProviderStatus, providerSymbol)
	}
	return price, nil
}

// DailyBars implements quote.Provider.
func (p *Provider) DailyBars(ctx context.Context, providerSymbol string, n int) ([]quote.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("sim: bar count must be positive")
	}
	key := canonical(providerSymbol)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seriesCalls[key]++
	if err := p.seriesErrs[key]; err != nil {
		return nil, err
	}
	bars := p.bars[key]
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", quote.ErrEmptySeries, providerSymbol)
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	out := make([]quote.Bar, len(bars))
	copy(out, bars)
	return out, nil
}

// DailySeries builds count consecutive daily bars ending at end (inclusive),
// with close prices stepping by step from start. Useful for seeding.
func DailySeries(end time.Time, count int, start, step decimal.Decimal) []quote.Bar {
	bars := make([]quote.Bar, 0, count)
	first := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(count - 1))
	price := start
	for i := 0; i < count; i++ {
		bars = append(bars, quote.Bar{
			Date:  first.AddDate(0, 0, i),
			Open:  price,
			High:  price.Add(step),
			Low:   price.Sub(step),
			Close: price.Add(step.Div(decimal.NewFromInt(2))),
		})
		price = price.Add(step)
	}
	return bars
}
