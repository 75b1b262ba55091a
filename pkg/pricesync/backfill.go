package pricesync

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/pkg/quote"
)

// Sleeper waits d unless ctx ends first and reports whether the full wait
// elapsed.
type Sleeper func(ctx context.Context, d time.Duration) bool

// Backfiller loads daily history for a pair and inserts it in bounded batches.
type Backfiller struct {
	provider  quote.Provider
	store     Store
	batchSize int
	delay     time.Duration
	sleep     Sleeper
}

func NewBackfiller(provider quote.Provider, store Store, batchSize int, delay time.Duration) *Backfiller {
	if batchSize <= 0 {
		batchSize = DefaultBackfillBatchSize
	}
	if delay < 0 {
		delay = 0
	}
	return &Backfiller{
		provider:  provider,
		store:     store,
		batchSize: batchSize,
		delay:     delay,
		sleep:     sleepWithContext,
	}
}

// Backfill requests up to days bars and persists them. The configured delay is
// applied after the upstream call whether or not it succeeded. A failed batch
// is logged and skipped; later batches are still attempted.
func (b *Backfiller) Backfill(ctx context.Context, pair Pair, days int) (BackfillResult, error) {
	var result BackfillResult
	if pair.ProviderSymbol == "" {
		return result, ErrUnmapped
	}
	if days <= 0 {
		days = DefaultBackfillDays
	}

	bars, err := b.provider.DailyBars(ctx, pair.ProviderSymbol, days)
	b.sleep(ctx, b.delay)
	if err != nil {
		return result, fmt.Errorf("%w: backfill %s: %v", ErrFetchFailed, pair.Key(), err)
	}
	if len(bars) == 0 {
		return result, fmt.Errorf("%w: backfill %s: provider returned no bars", ErrNoData, pair.Key())
	}

	records := make([]PriceRecord, 0, len(bars))
	for _, bar := range bars {
		records = append(records, recordFromBar(pair, bar))
	}
	result.Fetched = len(records)
	result.Inserted, result.FailedBatches = InsertBatches(ctx, b.store, records, b.batchSize)
	return result, nil
}

// InsertBatches writes records in chunks of size and returns how many rows
// landed and how many chunks failed.
func InsertBatches(ctx context.Context, store Store, records []PriceRecord, size int) (inserted, failedBatches int) {
	if size <= 0 {
		size = DefaultBackfillBatchSize
	}
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batch := records[start:end]
		if err := store.InsertPrices(ctx, batch); err != nil {
			failedBatches++
			first := batch[0]
			logx.WithContext(ctx).Errorf("backfill: insert batch failed symbol=%s market=%s rows=%d offset=%d err=%v",
				first.Symbol, first.Market, len(batch), start, err)
			continue
		}
		inserted += len(batch)
	}
	return inserted, failedBatches
}

func recordFromBar(pair Pair, bar quote.Bar) PriceRecord {
	closePrice := bar.Close.Round(pricePlaces)
	rec := PriceRecord{
		Symbol:     pair.Symbol,
		Market:     pair.Market,
		Price:      closePrice,
		Open:       bar.Open.Round(pricePlaces),
		High:       bar.High.Round(pricePlaces),
		Low:        bar.Low.Round(pricePlaces),
		Close:      closePrice,
		RecordedAt: bar.Date.UTC(),
	}
	if bar.Volume != nil {
		v := *bar.Volume
		rec.Volume = &v
	}
	return rec
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
