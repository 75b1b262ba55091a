package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cachekeys "marketdesk-api/internal/cache"
	"marketdesk-api/pkg/pricesync"
)

const (
	defaultListLimit = 500
	maxListLimit     = 5000
)

// PriceQuery filters ListPrices. Zero From/To leave that side open.
type PriceQuery struct {
	Symbol string
	Market pricesync.Market
	From   time.Time
	To     time.Time
	Limit  int
}

// ListPrices returns raw records of a pair in descending time order.
func (s *Store) ListPrices(ctx context.Context, q PriceQuery) ([]pricesync.PriceRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	conds := []string{"symbol = $1", "market = $2"}
	args := []any{q.Symbol, string(q.Market)}
	if !q.From.IsZero() {
		args = append(args, q.From.UTC())
		conds = append(conds, fmt.Sprintf("recorded_at >= $%d", len(args)))
	}
	if !q.To.IsZero() {
		args = append(args, q.To.UTC())
		conds = append(conds, fmt.Sprintf("recorded_at <= $%d", len(args)))
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s FROM market_prices WHERE %s ORDER BY recorded_at DESC, id DESC LIMIT $%d`,
		priceColumns, strings.Join(conds, " AND "), len(args))

	var rows []priceRow
	if err := s.conn.QueryRowsCtx(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// LatestPrices returns the newest record for each pair, reading Redis first.
// Pairs without any history are omitted.
func (s *Store) LatestPrices(ctx context.Context, pairs []pricesync.Pair) ([]pricesync.PriceRecord, error) {
	out := make([]pricesync.PriceRecord, 0, len(pairs))
	for _, p := range pairs {
		key := cachekeys.PriceLatestKey(p.Symbol, string(p.Market))
		var cached pricesync.PriceRecord
		if found, err := s.getCache(ctx, key, &cached); err == nil && found {
			out = append(out, cached)
			continue
		}
		rec, err := s.LatestPrice(ctx, p.Symbol, p.Market)
		if errors.Is(err, pricesync.ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.setCache(ctx, key, cachekeys.PriceTTL(s.ttl), rec)
		out = append(out, rec)
	}
	return out, nil
}

// ListMonthly returns the monthly rollups of a pair ordered by period.
func (s *Store) ListMonthly(ctx context.Context, symbol string, market pricesync.Market) ([]pricesync.MonthlyAverage, error) {
	key := cachekeys.MonthlyRollupKey(symbol, string(market))
	var rows []pricesync.MonthlyAverage
	if found, err := s.getCache(ctx, key, &rows); err == nil && found {
		return rows, nil
	}
	query := `SELECT symbol, market, year, month, avg_price, avg_high, avg_low, data_points, updated_at
FROM monthly_averages WHERE symbol = $1 AND market = $2 ORDER BY year, month`
	rows = nil
	if err := s.conn.QueryRowsCtx(ctx, &rows, query, symbol, string(market)); err != nil {
		return nil, err
	}
	s.setCache(ctx, key, cachekeys.RollupTTL(s.ttl), rows)
	return rows, nil
}

// ListYearly returns the yearly rollups of a pair ordered by year.
func (s *Store) ListYearly(ctx context.Context, symbol string, market pricesync.Market) ([]pricesync.YearlyAverage, error) {
	key := cachekeys.YearlyRollupKey(symbol, string(market))
	var rows []pricesync.YearlyAverage
	if found, err := s.getCache(ctx, key, &rows); err == nil && found {
		return rows, nil
	}
	query := `SELECT symbol, market, year, avg_price, avg_high, avg_low, data_points, updated_at
FROM yearly_averages WHERE symbol = $1 AND market = $2 ORDER BY year`
	rows = nil
	if err := s.conn.QueryRowsCtx(ctx, &rows, query, symbol, string(market)); err != nil {
		return nil, err
	}
	s.setCache(ctx, key, cachekeys.RollupTTL(s.ttl), rows)
	return rows, nil
}
