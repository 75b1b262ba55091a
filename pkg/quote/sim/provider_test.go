package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"marketdesk-api/pkg/quote"
)

func TestProviderPriceAndFailures(t *testing.T) {
	p := New()
	ctx := context.Background()

	p.SetPrice("usd/thb", decimal.RequireFromString("35.1"))
	price, err := p.Price(ctx, "USD/THB")
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.RequireFromString("35.1")))

	boom := errors.New("boom")
	p.FailPrice("USD/THB", boom)
	_, err = p.Price(ctx, "USD/THB")
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, p.PriceCalls("USD/THB"))

	_, err = p.Price(ctx, "UNKNOWN")
	require.ErrorIs(t, err, quote.ErrProviderStatus)
}

func TestProviderDailyBarsLimit(t *testing.T) {
	p := New()
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	p.SetBars("CU", DailySeries(end, 10, decimal.NewFromInt(100), decimal.NewFromInt(1)))

	bars, err := p.DailyBars(context.Background(), "CU", 3)
	require.NoError(t, err)
	require.Len(t, bars, 3)
	require.Equal(t, end, bars[2].Date)
	require.True(t, bars[0].Date.Before(bars[1].Date))

	_, err = p.DailyBars(context.Background(), "AL", 3)
	require.ErrorIs(t, err, quote.ErrEmptySeries)
}

func TestProviderCredentials(t *testing.T) {
	p := New()
	require.NoError(t, p.CheckCredentials())
	p.SetCredentials(false)
	require.ErrorIs(t, p.CheckCredentials(), quote.ErrMissingCredentials)
}
