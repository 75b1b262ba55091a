package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"
	gocache "github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	cachekeys "marketdesk-api/internal/cache"
	"marketdesk-api/pkg/pricesync"
)

var _ pricesync.Store = (*Store)(nil)

const priceColumns = "symbol, market, price, open_price, high_price, low_price, close_price, volume, change_24h, recorded_at"

// Store persists price records and rollups in Postgres and mirrors the newest
// record per pair into Redis.
type Store struct {
	conn  sqlx.SqlConn
	cache gocache.Cache
	ttl   cachekeys.TTLSet
}

// Config enumerates the dependencies of Store. Cache is optional.
type Config struct {
	Conn  sqlx.SqlConn
	Cache gocache.Cache
	TTL   cachekeys.TTLSet
}

// New wires a Store. Returns nil when no connection is configured.
func New(cfg Config) *Store {
	if cfg.Conn == nil {
		return nil
	}
	return &Store{conn: cfg.Conn, cache: cfg.Cache, ttl: cfg.TTL}
}

// priceRow mirrors market_prices; nullable columns scan through Null types.
type priceRow struct {
	Symbol     string              `db:"symbol"`
	Market     string              `db:"market"`
	Price      decimal.Decimal     `db:"price"`
	Open       decimal.NullDecimal `db:"open_price"`
	High       decimal.NullDecimal `db:"high_price"`
	Low        decimal.NullDecimal `db:"low_price"`
	Close      decimal.NullDecimal `db:"close_price"`
	Volume     sql.NullInt64       `db:"volume"`
	Change24h  decimal.NullDecimal `db:"change_24h"`
	RecordedAt time.Time           `db:"recorded_at"`
}

func (r priceRow) record() pricesync.PriceRecord {
	rec := pricesync.PriceRecord{
		Symbol:     r.Symbol,
		Market:     pricesync.Market(r.Market),
		Price:      r.Price,
		Open:       r.Open.Decimal,
		High:       r.High.Decimal,
		Low:        r.Low.Decimal,
		Close:      r.Close.Decimal,
		RecordedAt: r.RecordedAt.UTC(),
	}
	if r.Volume.Valid {
		v := r.Volume.Int64
		rec.Volume = &v
	}
	if r.Change24h.Valid {
		c := r.Change24h.Decimal
		rec.Change24h = &c
	}
	return rec
}

func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn.RawDB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// InsertPrices writes records with one multi-row INSERT.
func (s *Store) InsertPrices(ctx context.Context, records []pricesync.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO market_prices (" + priceColumns + ") VALUES ")
	args := make([]any, 0, len(records)*10)
	for i, r := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 10
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10)
		args = append(args,
			r.Symbol,
			string(r.Market),
			r.Price,
			nullableDecimal(r.Open),
			nullableDecimal(r.High),
			nullableDecimal(r.Low),
			nullableDecimal(r.Close),
			nullableInt(r.Volume),
			nullablePtrDecimal(r.Change24h),
			r.RecordedAt.UTC(),
		)
	}
	if _, err := s.conn.ExecCtx(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert %d market prices: %w", len(records), err)
	}
	s.cacheLatest(ctx, records)
	return nil
}

func (s *Store) LatestPrice(ctx context.Context, symbol string, market pricesync.Market) (pricesync.PriceRecord, error) {
	var row priceRow
	query := `SELECT ` + priceColumns + ` FROM market_prices
WHERE symbol = $1 AND market = $2
ORDER BY recorded_at DESC, id DESC
LIMIT 1`
	if err := s.conn.QueryRowCtx(ctx, &row, query, symbol, string(market)); err != nil {
		if errors.Is(err, sqlx.ErrNotFound) {
			return pricesync.PriceRecord{}, pricesync.ErrNoData
		}
		return pricesync.PriceRecord{}, err
	}
	return row.record(), nil
}

func (s *Store) PricesSince(ctx context.Context, symbol string, market pricesync.Market, since time.Time) ([]pricesync.PriceRecord, error) {
	var rows []priceRow
	query := `SELECT ` + priceColumns + ` FROM market_prices
WHERE symbol = $1 AND market = $2 AND recorded_at >= $3
ORDER BY recorded_at ASC, id ASC`
	if err := s.conn.QueryRowsCtx(ctx, &rows, query, symbol, string(market), since.UTC()); err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func (s *Store) UpsertMonthly(ctx context.Context, rows []pricesync.MonthlyAverage) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := `
INSERT INTO monthly_averages (symbol, market, year, month, avg_price, avg_high, avg_low, data_points, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (symbol, market, year, month) DO UPDATE SET
    avg_price = EXCLUDED.avg_price,
    avg_high = EXCLUDED.avg_high,
    avg_low = EXCLUDED.avg_low,
    data_points = EXCLUDED.data_points,
    updated_at = EXCLUDED.updated_at;`
	err := s.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		for _, r := range rows {
			if _, err := session.ExecCtx(ctx, stmt, r.Symbol, string(r.Market), r.Year, r.Month,
				r.AvgPrice, r.AvgHigh, r.AvgLow, r.DataPoints, r.UpdatedAt.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert monthly averages: %w", err)
	}
	s.invalidate(ctx, cachekeys.MonthlyRollupKey(rows[0].Symbol, string(rows[0].Market)))
	return nil
}

func (s *Store) UpsertYearly(ctx context.Context, rows []pricesync.YearlyAverage) error {
	if len(rows) == 0 {
		return nil
	}
	stmt := `
INSERT INTO yearly_averages (symbol, market, year, avg_price, avg_high, avg_low, data_points, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (symbol, market, year) DO UPDATE SET
    avg_price = EXCLUDED.avg_price,
    avg_high = EXCLUDED.avg_high,
    avg_low = EXCLUDED.avg_low,
    data_points = EXCLUDED.data_points,
    updated_at = EXCLUDED.updated_at;`
	err := s.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		for _, r := range rows {
			if _, err := session.ExecCtx(ctx, stmt, r.Symbol, string(r.Market), r.Year,
				r.AvgPrice, r.AvgHigh, r.AvgLow, r.DataPoints, r.UpdatedAt.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert yearly averages: %w", err)
	}
	s.invalidate(ctx, cachekeys.YearlyRollupKey(rows[0].Symbol, string(rows[0].Market)))
	return nil
}

// cacheLatest stores the newest record per pair from a successful insert.
func (s *Store) cacheLatest(ctx context.Context, records []pricesync.PriceRecord) {
	if s.cache == nil {
		return
	}
	ttl := cachekeys.PriceTTL(s.ttl)
	if ttl <= 0 {
		return
	}
	newest := make(map[string]pricesync.PriceRecord)
	for _, r := range records {
		if cur, ok := newest[r.Key()]; !ok || !r.RecordedAt.Before(cur.RecordedAt) {
			newest[r.Key()] = r
		}
	}
	for _, r := range newest {
		key := cachekeys.PriceLatestKey(r.Symbol, string(r.Market))
		var cached pricesync.PriceRecord
		if found, _ := s.getCache(ctx, key, &cached); found && cached.RecordedAt.After(r.RecordedAt) {
			// backfilled history must not replace a fresher quote
			continue
		}
		if err := s.cache.SetWithExpireCtx(ctx, key, r, ttl); err != nil {
			logx.WithContext(ctx).Errorf("store: cache price key=%s err=%v", key, err)
		}
	}
}

func (s *Store) getCache(ctx context.Context, key string, v any) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	if err := s.cache.GetCtx(ctx, key, v); err != nil {
		if s.cache.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) setCache(ctx context.Context, key string, ttl time.Duration, v any) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	if err := s.cache.SetWithExpireCtx(ctx, key, v, ttl); err != nil {
		logx.WithContext(ctx).Errorf("store: set cache %s: %v", key, err)
	}
}

func (s *Store) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DelCtx(ctx, keys...); err != nil {
		logx.WithContext(ctx).Errorf("store: invalidate %v: %v", keys, err)
	}
}

func toRecords(rows []priceRow) []pricesync.PriceRecord {
	out := make([]pricesync.PriceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}
