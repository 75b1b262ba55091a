package pricesync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Market identifies the venue a symbol is quoted on.
type Market string

const (
	MarketFX   Market = "FX"
	MarketLME  Market = "LME"
	MarketSHFE Market = "SHFE"
)

// ParseMarket normalises s into a known Market.
func ParseMarket(s string) (Market, error) {
	switch m := Market(strings.ToUpper(strings.TrimSpace(s))); m {
	case MarketFX, MarketLME, MarketSHFE:
		return m, nil
	default:
		return "", fmt.Errorf("pricesync: unknown market %q", s)
	}
}

// Pair binds a symbol on a market to the upstream provider's symbol code.
type Pair struct {
	Symbol         string `yaml:"symbol" json:"symbol"`
	Market         Market `yaml:"market" json:"market"`
	ProviderSymbol string `yaml:"provider_symbol" json:"providerSymbol"`
}

// Key returns the pair key used in run reports, e.g. "USD/THB:FX".
func (p Pair) Key() string { return PairKey(p.Symbol, p.Market) }

// PairKey formats a symbol/market combination.
func PairKey(symbol string, market Market) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + ":" + string(market)
}

// ParsePairKey splits "SYMBOL:MARKET".
func ParsePairKey(key string) (string, Market, error) {
	idx := strings.LastIndex(key, ":")
	if idx <= 0 || idx == len(key)-1 {
		return "", "", fmt.Errorf("pricesync: invalid pair key %q", key)
	}
	market, err := ParseMarket(key[idx+1:])
	if err != nil {
		return "", "", err
	}
	return strings.ToUpper(strings.TrimSpace(key[:idx])), market, nil
}

// PriceRecord is one observation of a pair. Records are append-only.
type PriceRecord struct {
	Symbol     string           `db:"symbol" json:"symbol"`
	Market     Market           `db:"market" json:"market"`
	Price      decimal.Decimal  `db:"price" json:"price"`
	Open       decimal.Decimal  `db:"open_price" json:"openPrice"`
	High       decimal.Decimal  `db:"high_price" json:"highPrice"`
	Low        decimal.Decimal  `db:"low_price" json:"lowPrice"`
	Close      decimal.Decimal  `db:"close_price" json:"closePrice"`
	Volume     *int64           `db:"volume" json:"volume,omitempty"`
	Change24h  *decimal.Decimal `db:"change_24h" json:"change24h,omitempty"`
	RecordedAt time.Time        `db:"recorded_at" json:"recordedAt"`
}

// Key returns the record's pair key.
func (r PriceRecord) Key() string { return PairKey(r.Symbol, r.Market) }

// EffectiveHigh returns High, or Price when High was never populated.
func (r PriceRecord) EffectiveHigh() decimal.Decimal {
	if r.High.IsZero() {
		return r.Price
	}
	return r.High
}

// EffectiveLow returns Low, or Price when Low was never populated.
func (r PriceRecord) EffectiveLow() decimal.Decimal {
	if r.Low.IsZero() {
		return r.Price
	}
	return r.Low
}

// MonthlyAverage is the rollup for one calendar month of a pair.
type MonthlyAverage struct {
	Symbol     string          `db:"symbol" json:"symbol"`
	Market     Market          `db:"market" json:"market"`
	Year       int             `db:"year" json:"year"`
	Month      int             `db:"month" json:"month"`
	AvgPrice   decimal.Decimal `db:"avg_price" json:"avgPrice"`
	AvgHigh    decimal.Decimal `db:"avg_high" json:"avgHigh"`
	AvgLow     decimal.Decimal `db:"avg_low" json:"avgLow"`
	DataPoints int             `db:"data_points" json:"dataPoints"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// YearlyAverage is the rollup for one calendar year of a pair.
type YearlyAverage struct {
	Symbol     string          `db:"symbol" json:"symbol"`
	Market     Market          `db:"market" json:"market"`
	Year       int             `db:"year" json:"year"`
	AvgPrice   decimal.Decimal `db:"avg_price" json:"avgPrice"`
	AvgHigh    decimal.Decimal `db:"avg_high" json:"avgHigh"`
	AvgLow     decimal.Decimal `db:"avg_low" json:"avgLow"`
	DataPoints int             `db:"data_points" json:"dataPoints"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// Store is the persistence boundary of the pipeline.
type Store interface {
	Ping(ctx context.Context) error
	// InsertPrices appends records. Duplicate timestamps are accepted.
	InsertPrices(ctx context.Context, records []PriceRecord) error
	// LatestPrice returns the most recent record or ErrNoData.
	LatestPrice(ctx context.Context, symbol string, market Market) (PriceRecord, error)
	// PricesSince returns records with RecordedAt >= since, oldest first.
	PricesSince(ctx context.Context, symbol string, market Market, since time.Time) ([]PriceRecord, error)
	UpsertMonthly(ctx context.Context, rows []MonthlyAverage) error
	UpsertYearly(ctx context.Context, rows []YearlyAverage) error
}

// Clock returns the current time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// Stats is the per-cycle summary returned to callers.
type Stats struct {
	Fresh      int `json:"fresh"`
	Fallback   int `json:"fallback"`
	Backfilled int `json:"backfilled"`
	Failed     int `json:"failed"`
}

// RunResult buckets pair keys by outcome for one orchestrator invocation.
type RunResult struct {
	Success       []string  `json:"success"`
	Fallback      []string  `json:"fallback"`
	NeedsBackfill []string  `json:"needsBackfill"`
	Backfilled    []string  `json:"backfilled"`
	Failed        []string  `json:"failed"`
	Timestamp     time.Time `json:"timestamp"`
}

// Stats folds the buckets into counters. A pair flagged for backfill that did
// not receive any history counts as failed.
func (r *RunResult) Stats() Stats {
	backfilled := make(map[string]struct{}, len(r.Backfilled))
	for _, key := range r.Backfilled {
		backfilled[key] = struct{}{}
	}
	failed := len(r.Failed)
	for _, key := range r.NeedsBackfill {
		if _, ok := backfilled[key]; !ok {
			failed++
		}
	}
	return Stats{
		Fresh:      len(r.Success),
		Fallback:   len(r.Fallback),
		Backfilled: len(r.Backfilled),
		Failed:     failed,
	}
}

// Message renders a one-line human summary.
func (r *RunResult) Message() string {
	s := r.Stats()
	return fmt.Sprintf("sync completed: %d fresh, %d fallback, %d backfilled, %d failed",
		s.Fresh, s.Fallback, s.Backfilled, s.Failed)
}

// BackfillResult reports one historical load.
type BackfillResult struct {
	Fetched       int `json:"fetched"`
	Inserted      int `json:"inserted"`
	FailedBatches int `json:"failedBatches"`
}
