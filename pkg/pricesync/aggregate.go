package pricesync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Aggregator recomputes monthly and yearly rollups for a pair from the raw
// record set. Every group is rebuilt from scratch and upserted by key, so
// repeated runs over unchanged data produce identical rows.
type Aggregator struct {
	store         Store
	monthlyWindow int
	yearlyFloor   time.Time
	clock         Clock
}

func NewAggregator(store Store, monthlyWindowMonths int, yearlyFloor time.Time, clock Clock) *Aggregator {
	if monthlyWindowMonths <= 0 {
		monthlyWindowMonths = DefaultMonthlyWindowMonths
	}
	if yearlyFloor.IsZero() {
		yearlyFloor = DefaultYearlyFloor
	}
	return &Aggregator{
		store:         store,
		monthlyWindow: monthlyWindowMonths,
		yearlyFloor:   yearlyFloor,
		clock:         clock,
	}
}

// AggregateResult counts the rollup rows written for one pair.
type AggregateResult struct {
	Monthly int
	Yearly  int
}

// Recompute rebuilds both rollup levels for symbol/market.
func (a *Aggregator) Recompute(ctx context.Context, symbol string, market Market) (AggregateResult, error) {
	var result AggregateResult
	now := a.clock.now()
	monthlyStart := monthFloor(now, a.monthlyWindow)

	since := a.yearlyFloor
	if monthlyStart.Before(since) {
		since = monthlyStart
	}
	records, err := a.store.PricesSince(ctx, symbol, market, since)
	if err != nil {
		return result, fmt.Errorf("%w: load %s: %v", ErrAggregate, PairKey(symbol, market), err)
	}

	monthly := GroupMonthly(symbol, market, filterSince(records, monthlyStart), now)
	if len(monthly) > 0 {
		if err := a.store.UpsertMonthly(ctx, monthly); err != nil {
			return result, fmt.Errorf("%w: monthly %s: %v", ErrAggregate, PairKey(symbol, market), err)
		}
	}
	result.Monthly = len(monthly)

	yearly := GroupYearly(symbol, market, filterSince(records, a.yearlyFloor), now)
	if len(yearly) > 0 {
		if err := a.store.UpsertYearly(ctx, yearly); err != nil {
			return result, fmt.Errorf("%w: yearly %s: %v", ErrAggregate, PairKey(symbol, market), err)
		}
	}
	result.Yearly = len(yearly)
	return result, nil
}

func filterSince(records []PriceRecord, since time.Time) []PriceRecord {
	out := make([]PriceRecord, 0, len(records))
	for _, r := range records {
		if !r.RecordedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out
}

type accumulator struct {
	price, high, low decimal.Decimal
	n                int
}

func (acc *accumulator) add(r PriceRecord) {
	acc.price = acc.price.Add(r.Price)
	acc.high = acc.high.Add(r.EffectiveHigh())
	acc.low = acc.low.Add(r.EffectiveLow())
	acc.n++
}

func (acc *accumulator) means() (price, high, low decimal.Decimal) {
	n := decimal.NewFromInt(int64(acc.n))
	return acc.price.Div(n).Round(pricePlaces),
		acc.high.Div(n).Round(pricePlaces),
		acc.low.Div(n).Round(pricePlaces)
}

// GroupMonthly folds records into one row per calendar year-month, ordered
// chronologically.
func GroupMonthly(symbol string, market Market, records []PriceRecord, updatedAt time.Time) []MonthlyAverage {
	type key struct{ year, month int }
	groups := make(map[key]*accumulator)
	for _, r := range records {
		t := r.RecordedAt.UTC()
		k := key{t.Year(), int(t.Month())}
		if groups[k] == nil {
			groups[k] = &accumulator{}
		}
		groups[k].add(r)
	}
	rows := make([]MonthlyAverage, 0, len(groups))
	for k, acc := range groups {
		avgPrice, avgHigh, avgLow := acc.means()
		rows = append(rows, MonthlyAverage{
			Symbol:     symbol,
			Market:     market,
			Year:       k.year,
			Month:      k.month,
			AvgPrice:   avgPrice,
			AvgHigh:    avgHigh,
			AvgLow:     avgLow,
			DataPoints: acc.n,
			UpdatedAt:  updatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

// GroupYearly folds records into one row per calendar year.
func GroupYearly(symbol string, market Market, records []PriceRecord, updatedAt time.Time) []YearlyAverage {
	groups := make(map[int]*accumulator)
	for _, r := range records {
		year := r.RecordedAt.UTC().Year()
		if groups[year] == nil {
			groups[year] = &accumulator{}
		}
		groups[year].add(r)
	}
	rows := make([]YearlyAverage, 0, len(groups))
	for year, acc := range groups {
		avgPrice, avgHigh, avgLow := acc.means()
		rows = append(rows, YearlyAverage{
			Symbol:     symbol,
			Market:     market,
			Year:       year,
			AvgPrice:   avgPrice,
			AvgHigh:    avgHigh,
			AvgLow:     avgLow,
			DataPoints: acc.n,
			UpdatedAt:  updatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

// monthFloor returns the first instant of the calendar month that lies months
// before t, so the oldest bucket in the window is always whole.
func monthFloor(t time.Time, months int) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()-time.Month(months), 1, 0, 0, 0, 0, time.UTC)
}
