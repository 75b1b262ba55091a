package pricesync

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(`
pairs:
  - symbol: usd/thb
    market: fx
    provider_symbol: USD/THB
  - symbol: CU
    market: LME
`))
	require.NoError(t, err)
	require.Equal(t, DefaultBackfillDays, cfg.BackfillDays)
	require.Equal(t, DefaultStandaloneDays, cfg.StandaloneDays)
	require.Equal(t, DefaultBackfillBatchSize, cfg.BackfillBatchSize)
	require.Equal(t, DefaultBackfillDelay, cfg.BackfillDelay)
	require.Equal(t, DefaultYearlyFloor, cfg.YearlyFloor)
	require.Equal(t, "USD/THB:FX", cfg.Pairs[0].Key())
	require.Empty(t, cfg.Pairs[1].ProviderSymbol)

	pair, ok := cfg.FindPair("cu", MarketLME)
	require.True(t, ok)
	require.Equal(t, "CU", pair.Symbol)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(`
backfill_days: 90
backfill_batch_size: 50
backfill_delay: 0s
yearly_floor: 2022-01-01
pairs:
  - {symbol: AL, market: SHFE, provider_symbol: AL0}
`))
	require.NoError(t, err)
	require.Equal(t, 90, cfg.BackfillDays)
	require.Equal(t, 50, cfg.BackfillBatchSize)
	require.Zero(t, cfg.BackfillDelay)
	require.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), cfg.YearlyFloor)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "no pairs", yaml: "backfill_days: 10\n", wantErr: "pairs cannot be empty"},
		{name: "unknown market", yaml: "pairs:\n  - {symbol: X, market: NYSE}\n", wantErr: "unknown market"},
		{name: "duplicate", yaml: "pairs:\n  - {symbol: CU, market: LME}\n  - {symbol: cu, market: lme}\n", wantErr: "duplicate pair"},
		{name: "bad delay", yaml: "backfill_delay: soon\npairs:\n  - {symbol: CU, market: LME}\n", wantErr: "invalid backfill_delay"},
		{name: "bad floor", yaml: "yearly_floor: 2021/01/01\npairs:\n  - {symbol: CU, market: LME}\n", wantErr: "invalid yearly_floor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFromReader(strings.NewReader(tt.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParsePairKey(t *testing.T) {
	symbol, market, err := ParsePairKey("usd/thb:fx")
	require.NoError(t, err)
	require.Equal(t, "USD/THB", symbol)
	require.Equal(t, MarketFX, market)

	_, _, err = ParsePairKey("CU")
	require.Error(t, err)
}
