package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"marketdesk-api/pkg/pricesync"
)

func rec(symbol string, at time.Time, price string) pricesync.PriceRecord {
	return pricesync.PriceRecord{Symbol: symbol, Market: pricesync.MarketFX, Price: decimal.RequireFromString(price), RecordedAt: at}
}

func TestStoreLatestAndSince(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.LatestPrice(ctx, "USD/THB", pricesync.MarketFX)
	require.ErrorIs(t, err, pricesync.ErrNoData)

	require.NoError(t, s.InsertPrices(ctx, []pricesync.PriceRecord{
		rec("USD/THB", base.AddDate(0, 0, 2), "36"),
		rec("USD/THB", base, "35"),
		rec("USD/THB", base.AddDate(0, 0, 1), "35.5"),
	}))

	latest, err := s.LatestPrice(ctx, "USD/THB", pricesync.MarketFX)
	require.NoError(t, err)
	require.Equal(t, "36", latest.Price.String())

	since, err := s.PricesSince(ctx, "USD/THB", pricesync.MarketFX, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, since, 2)
	require.Equal(t, "35.5", since[0].Price.String())
}

func TestStoreFailInsertByOrdinal(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")
	s.FailInsert(2, boom)
	now := time.Now()

	require.NoError(t, s.InsertPrices(ctx, []pricesync.PriceRecord{rec("CU", now, "1")}))
	require.ErrorIs(t, s.InsertPrices(ctx, []pricesync.PriceRecord{rec("CU", now, "2")}), boom)
	require.NoError(t, s.InsertPrices(ctx, []pricesync.PriceRecord{rec("CU", now, "3")}))
	require.Equal(t, 3, s.InsertCalls())
	require.Len(t, s.Prices("CU", pricesync.MarketFX), 2)
}

func TestStoreUpsertOverwrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	row := pricesync.MonthlyAverage{Symbol: "CU", Market: pricesync.MarketLME, Year: 2024, Month: 3, DataPoints: 1}
	require.NoError(t, s.UpsertMonthly(ctx, []pricesync.MonthlyAverage{row}))
	row.DataPoints = 5
	require.NoError(t, s.UpsertMonthly(ctx, []pricesync.MonthlyAverage{row}))

	rows := s.Monthly("CU", pricesync.MarketLME)
	require.Len(t, rows, 1)
	require.Equal(t, 5, rows[0].DataPoints)
}
