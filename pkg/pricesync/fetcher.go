package pricesync

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/pkg/quote"
)

const pricePlaces = 4

var hundred = decimal.NewFromInt(100)

// Fetcher turns a provider quote into a normalised PriceRecord.
type Fetcher struct {
	provider quote.Provider
	clock    Clock
}

func NewFetcher(provider quote.Provider, clock Clock) *Fetcher {
	return &Fetcher{provider: provider, clock: clock}
}

// Fetch requests the current price and the latest daily bar for pair. When the
// bar is unavailable the record degrades to a flat bar at the current price.
// Any price failure is wrapped in ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, pair Pair) (PriceRecord, error) {
	if pair.ProviderSymbol == "" {
		return PriceRecord{}, ErrUnmapped
	}
	price, err := f.provider.Price(ctx, pair.ProviderSymbol)
	if err != nil {
		return PriceRecord{}, fmt.Errorf("%w: %s: %v", ErrFetchFailed, pair.Key(), err)
	}
	if !price.IsPositive() {
		return PriceRecord{}, fmt.Errorf("%w: %s: non-positive price %s", ErrFetchFailed, pair.Key(), price)
	}

	record := PriceRecord{
		Symbol:     pair.Symbol,
		Market:     pair.Market,
		Price:      price.Round(pricePlaces),
		RecordedAt: f.clock.now(),
	}

	bars, err := f.provider.DailyBars(ctx, pair.ProviderSymbol, 1)
	if err != nil || len(bars) == 0 {
		logx.WithContext(ctx).Infof("quote fetch: flat bar used symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
		flat := record.Price
		record.Open, record.High, record.Low, record.Close = flat, flat, flat, flat
		zero := int64(0)
		record.Volume = &zero
	} else {
		bar := bars[len(bars)-1]
		record.Open = bar.Open.Round(pricePlaces)
		record.High = bar.High.Round(pricePlaces)
		record.Low = bar.Low.Round(pricePlaces)
		record.Close = bar.Close.Round(pricePlaces)
		volume := int64(0)
		if bar.Volume != nil && *bar.Volume > 0 {
			volume = *bar.Volume
		}
		record.Volume = &volume
	}

	change := ChangePercent(record.Price, record.Open)
	record.Change24h = &change
	return record, nil
}

// ChangePercent returns (price-open)/open*100 rounded to four places, or zero
// when open is not positive.
func ChangePercent(price, open decimal.Decimal) decimal.Decimal {
	if !open.IsPositive() {
		return decimal.Zero
	}
	return price.Sub(open).Div(open).Mul(hundred).Round(pricePlaces)
}
