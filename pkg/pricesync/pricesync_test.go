package pricesync_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"marketdesk-api/pkg/pricesync"
	"marketdesk-api/pkg/pricesync/memstore"
	"marketdesk-api/pkg/quote"
	"marketdesk-api/pkg/quote/sim"
)

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var usdthb = pricesync.Pair{Symbol: "USD/THB", Market: pricesync.MarketFX, ProviderSymbol: "USD/THB"}

func newSyncFixture(pairs ...pricesync.Pair) (*pricesync.Orchestrator, *sim.Provider, *memstore.Store) {
	provider := sim.New()
	store := memstore.New()
	cfg := &pricesync.Config{Pairs: pairs}
	orch := pricesync.NewOrchestrator(cfg, provider, store, pricesync.WithClock(clock))
	return orch, provider, store
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name  string
		price string
		open  string
		want  string
	}{
		{name: "five percent up", price: "105", open: "100", want: "5"},
		{name: "zero open", price: "105", open: "0", want: "0"},
		{name: "down move rounds to four places", price: "33.3333", open: "35", want: "-4.7620"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricesync.ChangePercent(dec(tt.price), dec(tt.open))
			require.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestFetcherUsesLatestBar(t *testing.T) {
	provider := sim.New()
	provider.SetPrice("USD/THB", dec("105.123456"))
	vol := int64(900)
	provider.SetBars("USD/THB", []quote.Bar{{
		Date: fixedNow.AddDate(0, 0, -1), Open: dec("100"), High: dec("106"), Low: dec("99"), Close: dec("104"), Volume: &vol,
	}})

	rec, err := pricesync.NewFetcher(provider, clock).Fetch(context.Background(), usdthb)
	require.NoError(t, err)
	require.Equal(t, "105.1235", rec.Price.String())
	require.True(t, rec.Open.Equal(dec("100")))
	require.Equal(t, fixedNow, rec.RecordedAt)
	require.EqualValues(t, 900, *rec.Volume)
	require.True(t, rec.Change24h.Equal(dec("5.1235")))
}

func TestFetcherFlatBarWhenSeriesMissing(t *testing.T) {
	provider := sim.New()
	provider.SetPrice("USD/THB", dec("35.5"))

	rec, err := pricesync.NewFetcher(provider, clock).Fetch(context.Background(), usdthb)
	require.NoError(t, err)
	for _, v := range []decimal.Decimal{rec.Open, rec.High, rec.Low, rec.Close} {
		require.True(t, v.Equal(dec("35.5")))
	}
	require.EqualValues(t, 0, *rec.Volume)
	require.True(t, rec.Change24h.IsZero())
}

func TestFetcherFailures(t *testing.T) {
	provider := sim.New()
	provider.FailPrice("USD/THB", errors.New("rate limited"))
	fetcher := pricesync.NewFetcher(provider, clock)

	_, err := fetcher.Fetch(context.Background(), usdthb)
	require.ErrorIs(t, err, pricesync.ErrFetchFailed)

	_, err = fetcher.Fetch(context.Background(), pricesync.Pair{Symbol: "ZN", Market: pricesync.MarketSHFE})
	require.ErrorIs(t, err, pricesync.ErrUnmapped)
	require.Zero(t, provider.PriceCalls(""))
}

func TestFallbackResolverRestampsLastRecord(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	vol := int64(10)
	prior := pricesync.PriceRecord{
		Symbol: "USD/THB", Market: pricesync.MarketFX,
		Price: dec("35.1"), Open: dec("35"), High: dec("35.2"), Low: dec("34.9"), Close: dec("35.1"),
		Volume: &vol, RecordedAt: fixedNow.AddDate(0, 0, -3),
	}
	require.NoError(t, store.InsertPrices(ctx, []pricesync.PriceRecord{prior}))

	resolver := pricesync.NewFallbackResolver(store, clock)
	got, err := resolver.Resolve(ctx, "USD/THB", pricesync.MarketFX)
	require.NoError(t, err)
	require.Equal(t, fixedNow, got.RecordedAt)
	require.True(t, got.Price.Equal(prior.Price))
	require.True(t, got.High.Equal(prior.High))
	require.True(t, got.Low.Equal(prior.Low))
	require.EqualValues(t, 10, *got.Volume)

	_, err = resolver.Resolve(ctx, "CU", pricesync.MarketLME)
	require.ErrorIs(t, err, pricesync.ErrNoData)
}

func TestGapDetector(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	gaps := pricesync.NewGapDetector(store)

	has, err := gaps.HasData(ctx, "CU", pricesync.MarketLME)
	require.NoError(t, err)
	require.False(t, has)

	stale := pricesync.PriceRecord{Symbol: "CU", Market: pricesync.MarketLME, Price: dec("8000"), RecordedAt: fixedNow.AddDate(-2, 0, 0)}
	require.NoError(t, store.InsertPrices(ctx, []pricesync.PriceRecord{stale}))
	has, err = gaps.HasData(ctx, "CU", pricesync.MarketLME)
	require.NoError(t, err)
	require.True(t, has, "stale history is still history")

	store.SetLatestError(errors.New("db down"))
	_, err = gaps.HasData(ctx, "CU", pricesync.MarketLME)
	require.Error(t, err)
}

func TestBackfillContinuesPastFailedBatch(t *testing.T) {
	provider := sim.New()
	store := memstore.New()
	provider.SetBars("USD/THB", sim.DailySeries(fixedNow, 250, dec("30"), dec("0.01")))
	store.FailInsert(2, errors.New("payload too large"))

	backfiller := pricesync.NewBackfiller(provider, store, 100, 0)
	res, err := backfiller.Backfill(context.Background(), usdthb, 365)
	require.NoError(t, err)
	require.Equal(t, 250, res.Fetched)
	require.Equal(t, 150, res.Inserted)
	require.Equal(t, 1, res.FailedBatches)
	require.Equal(t, 3, store.InsertCalls())

	rows := store.Prices("USD/THB", pricesync.MarketFX)
	require.Len(t, rows, 150)
	require.Equal(t, fixedNow.AddDate(0, 0, -249).Truncate(24*time.Hour), rows[0].RecordedAt)
}

func TestBackfillProviderErrors(t *testing.T) {
	provider := sim.New()
	store := memstore.New()
	backfiller := pricesync.NewBackfiller(provider, store, 100, 0)

	_, err := backfiller.Backfill(context.Background(), usdthb, 365)
	require.ErrorIs(t, err, pricesync.ErrFetchFailed)
	require.Zero(t, store.InsertCalls())
}

func TestGroupMonthlyTwoMonths(t *testing.T) {
	records := []pricesync.PriceRecord{
		{Price: dec("10"), High: dec("11"), Low: dec("9"), RecordedAt: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)},
		{Price: dec("20"), High: dec("21"), Low: dec("19"), RecordedAt: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)},
		{Price: dec("30"), RecordedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{Price: dec("31"), RecordedAt: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)},
		{Price: dec("32"), RecordedAt: time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)},
	}
	rows := pricesync.GroupMonthly("CU", pricesync.MarketLME, records, fixedNow)
	require.Len(t, rows, 2)

	require.Equal(t, 4, rows[0].Month)
	require.Equal(t, 2, rows[0].DataPoints)
	require.True(t, rows[0].AvgPrice.Equal(dec("15")))
	require.True(t, rows[0].AvgHigh.Equal(dec("16")))

	require.Equal(t, 5, rows[1].Month)
	require.Equal(t, 3, rows[1].DataPoints)
	require.True(t, rows[1].AvgPrice.Equal(dec("31")))
	require.True(t, rows[1].AvgLow.Equal(dec("31")), "missing low falls back to price")
}

func TestAggregatorIsIdempotent(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	pair := pricesync.Pair{Symbol: "CU", Market: pricesync.MarketLME}
	var records []pricesync.PriceRecord
	for _, bar := range sim.DailySeries(fixedNow, 90, dec("8000"), dec("3.3333")) {
		records = append(records, pricesync.PriceRecord{
			Symbol: pair.Symbol, Market: pair.Market, Price: bar.Close, High: bar.High, Low: bar.Low, RecordedAt: bar.Date,
		})
	}
	require.NoError(t, store.InsertPrices(ctx, records))

	agg := pricesync.NewAggregator(store, 12, time.Time{}, clock)
	first, err := agg.Recompute(ctx, pair.Symbol, pair.Market)
	require.NoError(t, err)
	monthly1 := store.Monthly(pair.Symbol, pair.Market)
	yearly1 := store.Yearly(pair.Symbol, pair.Market)

	second, err := agg.Recompute(ctx, pair.Symbol, pair.Market)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, monthly1, store.Monthly(pair.Symbol, pair.Market))
	require.Equal(t, yearly1, store.Yearly(pair.Symbol, pair.Market))
}

func TestSyncFallbackContinuity(t *testing.T) {
	orch, provider, store := newSyncFixture(usdthb)
	ctx := context.Background()
	prior := pricesync.PriceRecord{
		Symbol: "USD/THB", Market: pricesync.MarketFX,
		Price: dec("35.1"), Open: dec("35"), High: dec("35.3"), Low: dec("34.8"), Close: dec("35.1"),
		RecordedAt: fixedNow.AddDate(0, 0, -1),
	}
	require.NoError(t, store.InsertPrices(ctx, []pricesync.PriceRecord{prior}))
	provider.FailPrice("USD/THB", errors.New("upstream 500"))

	result, err := orch.Sync(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"USD/THB:FX"}, result.Fallback)
	require.Empty(t, result.NeedsBackfill)
	require.Equal(t, pricesync.Stats{Fallback: 1}, result.Stats())

	latest, err := store.LatestPrice(ctx, "USD/THB", pricesync.MarketFX)
	require.NoError(t, err)
	require.Equal(t, fixedNow, latest.RecordedAt)
	require.True(t, latest.Price.Equal(prior.Price))
	require.True(t, latest.High.Equal(prior.High))
	require.Zero(t, provider.SeriesCalls("USD/THB"), "pair with history is not backfilled")
}

func TestSyncFlagsPairWithoutAnyData(t *testing.T) {
	orch, provider, _ := newSyncFixture(usdthb)
	provider.FailPrice("USD/THB", errors.New("upstream 500"))
	provider.FailSeries("USD/THB", errors.New("upstream 500"))

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"USD/THB:FX"}, result.NeedsBackfill)
	require.Empty(t, result.Fallback)
	require.Empty(t, result.Backfilled)
	require.Equal(t, 1, result.Stats().Failed)
}

func TestSyncUnmappedPairIsFailed(t *testing.T) {
	zinc := pricesync.Pair{Symbol: "ZN", Market: pricesync.MarketSHFE}
	orch, provider, store := newSyncFixture(usdthb, zinc)
	provider.SetPrice("USD/THB", dec("35"))
	require.NoError(t, store.InsertPrices(context.Background(), []pricesync.PriceRecord{
		{Symbol: "USD/THB", Market: pricesync.MarketFX, Price: dec("34"), RecordedAt: fixedNow.AddDate(0, 0, -1)},
	}))

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"USD/THB:FX"}, result.Success)
	require.Equal(t, []string{"ZN:SHFE"}, result.Failed)
	require.Equal(t, pricesync.Stats{Fresh: 1, Failed: 1}, result.Stats())
}

func TestSyncCycleWidePreconditions(t *testing.T) {
	t.Run("missing upstream credential", func(t *testing.T) {
		orch, provider, store := newSyncFixture(usdthb)
		provider.SetCredentials(false)
		_, err := orch.Sync(context.Background())
		require.ErrorIs(t, err, pricesync.ErrConfiguration)
		require.Zero(t, store.InsertCalls())
	})

	t.Run("store unreachable", func(t *testing.T) {
		orch, provider, store := newSyncFixture(usdthb)
		store.SetPingError(errors.New("connection refused"))
		_, err := orch.Sync(context.Background())
		require.ErrorIs(t, err, pricesync.ErrPersist)
		require.Zero(t, provider.PriceCalls("USD/THB"))
	})

	t.Run("unauthorized caller", func(t *testing.T) {
		provider := sim.New()
		store := memstore.New()
		deny := pricesync.AuthorizerFunc(func(context.Context, string) error { return errors.New("bad secret") })
		orch := pricesync.NewOrchestrator(&pricesync.Config{Pairs: []pricesync.Pair{usdthb}}, provider, store,
			pricesync.WithClock(clock), pricesync.WithAuthorizer(deny))
		_, err := orch.Run(context.Background(), "nope")
		require.ErrorIs(t, err, pricesync.ErrUnauthorized)
		require.Zero(t, provider.PriceCalls("USD/THB"))
	})
}

func TestSyncPersistFailureIsNotFatal(t *testing.T) {
	orch, provider, store := newSyncFixture(usdthb)
	provider.SetPrice("USD/THB", dec("35"))
	require.NoError(t, store.InsertPrices(context.Background(), []pricesync.PriceRecord{
		{Symbol: "USD/THB", Market: pricesync.MarketFX, Price: dec("34"), RecordedAt: fixedNow.AddDate(0, 0, -1)},
	}))
	store.FailInsert(2, errors.New("disk full"))

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Stats().Fresh)
	require.Len(t, store.Prices("USD/THB", pricesync.MarketFX), 1)
}

func TestSyncEndToEndBackfillsEmptyPair(t *testing.T) {
	orch, provider, store := newSyncFixture(usdthb)
	provider.SetPrice("USD/THB", dec("35.5"))
	provider.SetBars("USD/THB", sim.DailySeries(fixedNow.AddDate(0, 0, -1), 200, dec("33"), dec("0.01")))

	result, err := orch.Run(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"USD/THB:FX"}, result.Success)
	require.Equal(t, []string{"USD/THB:FX"}, result.Backfilled)
	require.Equal(t, pricesync.Stats{Fresh: 1, Backfilled: 1}, result.Stats())
	require.Equal(t, fixedNow, result.Timestamp)

	// one persist batch plus two backfill batches of 100
	require.Equal(t, 3, store.InsertCalls())
	prices := store.Prices("USD/THB", pricesync.MarketFX)
	require.Len(t, prices, 201)
	require.Equal(t, fixedNow, prices[len(prices)-1].RecordedAt)

	monthly := store.Monthly("USD/THB", pricesync.MarketFX)
	require.Len(t, monthly, 7)
	require.Equal(t, 2023, monthly[0].Year)
	require.Equal(t, 12, monthly[0].Month)
	require.Equal(t, 19, monthly[0].DataPoints)
	total := 0
	for _, m := range monthly {
		total += m.DataPoints
	}
	require.Equal(t, 201, total)

	yearly := store.Yearly("USD/THB", pricesync.MarketFX)
	require.Len(t, yearly, 2)
	require.Equal(t, 2023, yearly[0].Year)
	require.Equal(t, 19, yearly[0].DataPoints)
	require.Equal(t, 182, yearly[1].DataPoints)
}

func TestStandaloneBackfillRecomputesRollups(t *testing.T) {
	orch, provider, store := newSyncFixture(usdthb)
	provider.SetBars("USD/THB", sim.DailySeries(fixedNow, 60, dec("33"), dec("0.01")))

	report, err := orch.Backfill(context.Background(), orch.Pairs(), 30)
	require.NoError(t, err)
	require.Len(t, report, 1)
	require.Equal(t, 30, report[0].Result.Inserted)
	require.Empty(t, report[0].Error)
	require.NotEmpty(t, store.Monthly("USD/THB", pricesync.MarketFX))
}

func TestRunResultStats(t *testing.T) {
	r := &pricesync.RunResult{
		Success:       []string{"A:FX", "B:FX"},
		Fallback:      []string{"C:LME"},
		NeedsBackfill: []string{"D:SHFE", "E:SHFE"},
		Backfilled:    []string{"A:FX", "D:SHFE"},
		Failed:        []string{"F:FX"},
	}
	require.Equal(t, pricesync.Stats{Fresh: 2, Fallback: 1, Backfilled: 2, Failed: 2}, r.Stats())
	require.Contains(t, r.Message(), "2 fresh")
}

type panickingProvider struct {
	*sim.Provider
	symbol string
}

func (p panickingProvider) Price(ctx context.Context, providerSymbol string) (decimal.Decimal, error) {
	if providerSymbol == p.symbol {
		panic("decode quote: unexpected payload")
	}
	return p.Provider.Price(ctx, providerSymbol)
}

func TestSyncPanickingFetchIsFailed(t *testing.T) {
	cu := pricesync.Pair{Symbol: "CU", Market: pricesync.MarketLME, ProviderSymbol: "CU"}
	provider := sim.New()
	provider.SetPrice("CU", dec("9100"))
	store := memstore.New()
	cfg := &pricesync.Config{Pairs: []pricesync.Pair{usdthb, cu}}
	orch := pricesync.NewOrchestrator(cfg, panickingProvider{Provider: provider, symbol: "USD/THB"}, store, pricesync.WithClock(clock))

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"USD/THB:FX"}, result.Failed)
	require.Equal(t, []string{"CU:LME"}, result.Success)
	require.Empty(t, result.Fallback)
	require.Empty(t, store.Prices("USD/THB", pricesync.MarketFX))

	rows := store.Prices("CU", pricesync.MarketLME)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Price.Equal(dec("9100")))
}

func TestMonthlyWindowStartsOnMonthBoundary(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	pair := pricesync.Pair{Symbol: "AL", Market: pricesync.MarketLME}
	var records []pricesync.PriceRecord
	for _, bar := range sim.DailySeries(time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), 30, dec("2200"), dec("1")) {
		records = append(records, pricesync.PriceRecord{
			Symbol: pair.Symbol, Market: pair.Market, Price: bar.Close, High: bar.High, Low: bar.Low, RecordedAt: bar.Date,
		})
	}
	require.NoError(t, store.InsertPrices(ctx, records))

	for _, now := range []time.Time{
		time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 28, 9, 0, 0, 0, time.UTC),
	} {
		agg := pricesync.NewAggregator(store, 12, time.Time{}, func() time.Time { return now })
		_, err := agg.Recompute(ctx, pair.Symbol, pair.Market)
		require.NoError(t, err)

		monthly := store.Monthly(pair.Symbol, pair.Market)
		require.Len(t, monthly, 1, "now=%s", now)
		require.Equal(t, 2023, monthly[0].Year)
		require.Equal(t, 6, monthly[0].Month)
		require.Equal(t, 30, monthly[0].DataPoints, "now=%s", now)
	}
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type recordingProvider struct {
	*sim.Provider
	log *callLog
}

func (p recordingProvider) DailyBars(ctx context.Context, providerSymbol string, n int) ([]quote.Bar, error) {
	// n == 1 is the fetch path; only history loads are of interest.
	if n > 1 {
		p.log.add("bars %s", providerSymbol)
	}
	return p.Provider.DailyBars(ctx, providerSymbol, n)
}

func TestSyncBackfillsSequentiallyWithThrottle(t *testing.T) {
	cu := pricesync.Pair{Symbol: "CU", Market: pricesync.MarketLME, ProviderSymbol: "CU"}
	al := pricesync.Pair{Symbol: "AL", Market: pricesync.MarketLME, ProviderSymbol: "AL"}
	provider := sim.New()
	for _, sym := range []string{"CU", "AL", "USD/THB"} {
		provider.SetPrice(sym, dec("100"))
	}
	provider.SetBars("CU", sim.DailySeries(fixedNow.AddDate(0, 0, -1), 10, dec("9000"), dec("1")))
	provider.SetBars("USD/THB", sim.DailySeries(fixedNow.AddDate(0, 0, -1), 10, dec("35"), dec("0.01")))
	// AL has no series, so its history load fails upstream.

	log := &callLog{}
	sleeper := func(_ context.Context, d time.Duration) bool {
		log.add("sleep %s", d)
		return true
	}
	store := memstore.New()
	cfg := &pricesync.Config{Pairs: []pricesync.Pair{cu, al, usdthb}, BackfillDelay: 2 * time.Second}
	orch := pricesync.NewOrchestrator(cfg, recordingProvider{Provider: provider, log: log}, store,
		pricesync.WithClock(clock), pricesync.WithSleeper(sleeper))

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"CU:LME", "USD/THB:FX"}, result.Backfilled)
	require.Equal(t, []string{
		"bars CU", "sleep 2s",
		"bars AL", "sleep 2s",
		"bars USD/THB", "sleep 2s",
	}, log.list())
}

type flakyLatestStore struct {
	*memstore.Store
	failures atomic.Int32
}

func (s *flakyLatestStore) LatestPrice(ctx context.Context, symbol string, market pricesync.Market) (pricesync.PriceRecord, error) {
	if s.failures.Add(-1) >= 0 {
		return pricesync.PriceRecord{}, errors.New("connection reset by peer")
	}
	return s.Store.LatestPrice(ctx, symbol, market)
}

func TestSyncBackfillsAfterTransientGapCheckError(t *testing.T) {
	provider := sim.New()
	provider.SetPrice("USD/THB", dec("35.5"))
	provider.SetBars("USD/THB", sim.DailySeries(fixedNow.AddDate(0, 0, -1), 20, dec("33"), dec("0.01")))
	store := &flakyLatestStore{Store: memstore.New()}
	store.failures.Store(1)
	orch := pricesync.NewOrchestrator(&pricesync.Config{Pairs: []pricesync.Pair{usdthb}}, provider, store, pricesync.WithClock(clock))

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"USD/THB:FX"}, result.Success)
	require.Equal(t, []string{"USD/THB:FX"}, result.Backfilled)
	require.Len(t, store.Prices("USD/THB", pricesync.MarketFX), 21)
}

func TestSyncSkipsBackfillWhenGapCheckKeepsFailing(t *testing.T) {
	provider := sim.New()
	provider.SetPrice("USD/THB", dec("35.5"))
	provider.SetBars("USD/THB", sim.DailySeries(fixedNow.AddDate(0, 0, -1), 20, dec("33"), dec("0.01")))
	store := &flakyLatestStore{Store: memstore.New()}
	store.failures.Store(2)
	orch := pricesync.NewOrchestrator(&pricesync.Config{Pairs: []pricesync.Pair{usdthb}}, provider, store, pricesync.WithClock(clock))

	result, err := orch.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"USD/THB:FX"}, result.Success)
	require.Empty(t, result.Backfilled)
	require.Equal(t, 1, provider.SeriesCalls("USD/THB"))
	require.Len(t, store.Prices("USD/THB", pricesync.MarketFX), 1)
}
