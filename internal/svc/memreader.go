package svc

import (
	"context"
	"errors"
	"sort"

	"marketdesk-api/internal/store"
	"marketdesk-api/pkg/pricesync"
	"marketdesk-api/pkg/pricesync/memstore"
)

// memReader serves presentation queries from the in-memory store.
type memReader struct {
	mem *memstore.Store
}

func (m memReader) ListPrices(_ context.Context, q store.PriceQuery) ([]pricesync.PriceRecord, error) {
	all := m.mem.Prices(q.Symbol, q.Market)
	out := make([]pricesync.PriceRecord, 0, len(all))
	for _, r := range all {
		if !q.From.IsZero() && r.RecordedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && r.RecordedAt.After(q.To) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m memReader) LatestPrices(ctx context.Context, pairs []pricesync.Pair) ([]pricesync.PriceRecord, error) {
	out := make([]pricesync.PriceRecord, 0, len(pairs))
	for _, p := range pairs {
		rec, err := m.mem.LatestPrice(ctx, p.Symbol, p.Market)
		if errors.Is(err, pricesync.ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m memReader) ListMonthly(_ context.Context, symbol string, market pricesync.Market) ([]pricesync.MonthlyAverage, error) {
	return m.mem.Monthly(symbol, market), nil
}

func (m memReader) ListYearly(_ context.Context, symbol string, market pricesync.Market) ([]pricesync.YearlyAverage, error) {
	return m.mem.Yearly(symbol, market), nil
}
