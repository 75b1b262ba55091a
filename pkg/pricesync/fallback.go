package pricesync

import (
	"context"
	"errors"
	"fmt"
)

// FallbackResolver serves the last persisted record for a pair, re-stamped
// with the current time. It reads from the store on every call.
type FallbackResolver struct {
	store Store
	clock Clock
}

func NewFallbackResolver(store Store, clock Clock) *FallbackResolver {
	return &FallbackResolver{store: store, clock: clock}
}

// Resolve returns ErrNoData when the pair has no history at all.
func (r *FallbackResolver) Resolve(ctx context.Context, symbol string, market Market) (PriceRecord, error) {
	last, err := r.store.LatestPrice(ctx, symbol, market)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return PriceRecord{}, ErrNoData
		}
		return PriceRecord{}, fmt.Errorf("fallback lookup %s: %w", PairKey(symbol, market), err)
	}
	copied := last
	copied.RecordedAt = r.clock.now()
	if last.Volume != nil {
		v := *last.Volume
		copied.Volume = &v
	}
	if last.Change24h != nil {
		c := *last.Change24h
		copied.Change24h = &c
	}
	return copied, nil
}
