package pricesync

import (
	"context"
	"errors"
)

// GapDetector reports whether a pair has any persisted history. Staleness is
// not a gap; only total absence is.
type GapDetector struct {
	store Store
}

func NewGapDetector(store Store) *GapDetector {
	return &GapDetector{store: store}
}

func (g *GapDetector) HasData(ctx context.Context, symbol string, market Market) (bool, error) {
	_, err := g.store.LatestPrice(ctx, symbol, market)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoData):
		return false, nil
	default:
		return false, err
	}
}
