package pricesync

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"

	"marketdesk-api/pkg/quote"
)

// Authorizer validates the credential presented to the sync entry point.
type Authorizer interface {
	Authorize(ctx context.Context, credential string) error
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, credential string) error

func (f AuthorizerFunc) Authorize(ctx context.Context, credential string) error {
	return f(ctx, credential)
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithAuthorizer guards Run with a credential check. Without one, Run accepts
// any caller; in-process schedulers call Sync directly.
func WithAuthorizer(a Authorizer) Option {
	return func(o *Orchestrator) { o.auth = a }
}

// WithClock pins the time source used for record timestamps and rollup windows.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithSleeper replaces the wait applied between upstream history calls.
func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) { o.sleep = s }
}

// Orchestrator runs one sync cycle over the configured pair registry. It keeps
// no state between invocations; failed pairs are retried by the next run.
type Orchestrator struct {
	cfg      *Config
	provider quote.Provider
	store    Store
	auth     Authorizer
	clock    Clock
	sleep    Sleeper

	fetcher    *Fetcher
	fallback   *FallbackResolver
	gaps       *GapDetector
	backfiller *Backfiller
	aggregator *Aggregator
}

func NewOrchestrator(cfg *Config, provider quote.Provider, store Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{cfg: cfg, provider: provider, store: store}
	for _, opt := range opts {
		opt(o)
	}
	o.fetcher = NewFetcher(provider, o.clock)
	o.fallback = NewFallbackResolver(store, o.clock)
	o.gaps = NewGapDetector(store)
	o.backfiller = NewBackfiller(provider, store, cfg.BackfillBatchSize, cfg.BackfillDelay)
	if o.sleep != nil {
		o.backfiller.sleep = o.sleep
	}
	o.aggregator = NewAggregator(store, cfg.MonthlyWindowMonths, cfg.YearlyFloor, o.clock)
	return o
}

// Pairs returns the configured registry in processing order.
func (o *Orchestrator) Pairs() []Pair {
	out := make([]Pair, len(o.cfg.Pairs))
	copy(out, o.cfg.Pairs)
	return out
}

// Authorize checks credential against the configured Authorizer.
func (o *Orchestrator) Authorize(ctx context.Context, credential string) error {
	if o.auth == nil {
		return nil
	}
	if err := o.auth.Authorize(ctx, credential); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return nil
}

// Run authorizes the caller and then executes one full cycle.
func (o *Orchestrator) Run(ctx context.Context, credential string) (*RunResult, error) {
	if err := o.Authorize(ctx, credential); err != nil {
		return nil, err
	}
	return o.Sync(ctx)
}

type outcomeKind int

// outcomeFailed is the zero value so a slot left unset by a recovered panic
// lands in the failed bucket.
const (
	outcomeFailed outcomeKind = iota
	outcomeFresh
	outcomeFallback
	outcomeNoData
)

type pairOutcome struct {
	kind   outcomeKind
	record PriceRecord
	// hasHistory is the pre-persist snapshot; nil means unknown.
	hasHistory *bool
}

// Sync executes fetch, persist, gap-check and report for every pair. Only
// cycle-wide preconditions are returned as errors; per-pair failures end up in
// the result buckets.
func (o *Orchestrator) Sync(ctx context.Context) (*RunResult, error) {
	if err := o.checkPreconditions(ctx); err != nil {
		return nil, err
	}

	pairs := o.cfg.Pairs
	outcomes := make([]pairOutcome, len(pairs))
	group := threading.NewRoutineGroup()
	for i := range pairs {
		group.RunSafe(func() {
			outcomes[i] = o.fetchPair(ctx, pairs[i])
		})
	}
	group.Wait()

	result := &RunResult{}
	records := make([]PriceRecord, 0, len(pairs))
	for i, out := range outcomes {
		key := pairs[i].Key()
		if (out.kind == outcomeFresh || out.kind == outcomeFallback) && out.record.Symbol == "" {
			logx.WithContext(ctx).Errorf("sync: drop empty record for %s", key)
			out.kind = outcomeFailed
			outcomes[i] = out
		}
		switch out.kind {
		case outcomeFresh:
			result.Success = append(result.Success, key)
			records = append(records, out.record)
		case outcomeFallback:
			result.Fallback = append(result.Fallback, key)
			records = append(records, out.record)
		case outcomeNoData:
			result.NeedsBackfill = append(result.NeedsBackfill, key)
		default:
			result.Failed = append(result.Failed, key)
		}
	}

	// A fresh record about to be persisted would mask a missing history, so
	// unknown snapshots are settled now.
	for i := range outcomes {
		if outcomes[i].kind != outcomeFresh || outcomes[i].hasHistory != nil {
			continue
		}
		pair := pairs[i]
		has, err := o.gaps.HasData(ctx, pair.Symbol, pair.Market)
		if err != nil {
			logx.WithContext(ctx).Errorf("sync: gap check symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
			continue
		}
		outcomes[i].hasHistory = &has
	}

	if len(records) > 0 {
		if err := o.store.InsertPrices(ctx, records); err != nil {
			logx.WithContext(ctx).Errorf("sync: persist %d records: %v", len(records), fmt.Errorf("%w: %v", ErrPersist, err))
		}
	}

	for i, pair := range pairs {
		if ctx.Err() != nil {
			result.Timestamp = o.clock.now()
			return result, fmt.Errorf("sync interrupted: %w", ctx.Err())
		}
		if pair.ProviderSymbol == "" {
			continue
		}
		if o.backfillIfMissing(ctx, pair, outcomes[i]) {
			result.Backfilled = append(result.Backfilled, pair.Key())
		}
		if _, err := o.aggregator.Recompute(ctx, pair.Symbol, pair.Market); err != nil {
			logx.WithContext(ctx).Errorf("sync: aggregate symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
		}
	}

	result.Timestamp = o.clock.now()
	stats := result.Stats()
	logx.WithContext(ctx).Infow("sync cycle finished",
		logx.Field("fresh", stats.Fresh),
		logx.Field("fallback", stats.Fallback),
		logx.Field("backfilled", stats.Backfilled),
		logx.Field("failed", stats.Failed),
	)
	return result, nil
}

func (o *Orchestrator) checkPreconditions(ctx context.Context) error {
	if err := o.provider.CheckCredentials(); err != nil {
		return fmt.Errorf("%w: quote provider %s: %v", ErrConfiguration, o.provider.Name(), err)
	}
	if err := o.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: store unreachable: %v", ErrPersist, err)
	}
	return nil
}

func (o *Orchestrator) fetchPair(ctx context.Context, pair Pair) pairOutcome {
	record, err := o.fetcher.Fetch(ctx, pair)
	if err == nil {
		out := pairOutcome{kind: outcomeFresh, record: record}
		has, gapErr := o.gaps.HasData(ctx, pair.Symbol, pair.Market)
		if gapErr == nil {
			out.hasHistory = &has
		}
		return out
	}
	if errors.Is(err, ErrUnmapped) {
		logx.WithContext(ctx).Errorf("sync: skip symbol=%s market=%s: no provider symbol", pair.Symbol, pair.Market)
		return pairOutcome{kind: outcomeFailed}
	}
	logx.WithContext(ctx).Errorf("sync: fetch symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)

	fallback, err := o.fallback.Resolve(ctx, pair.Symbol, pair.Market)
	switch {
	case err == nil:
		has := true
		return pairOutcome{kind: outcomeFallback, record: fallback, hasHistory: &has}
	case errors.Is(err, ErrNoData):
		has := false
		return pairOutcome{kind: outcomeNoData, hasHistory: &has}
	default:
		logx.WithContext(ctx).Errorf("sync: fallback symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
		return pairOutcome{kind: outcomeFailed}
	}
}

// backfillIfMissing runs the historical load when the pair had no history
// before this cycle and reports whether any rows were inserted. A fresh pair
// whose snapshot is still unknown is skipped: after persist a store check
// would only see this cycle's own record.
func (o *Orchestrator) backfillIfMissing(ctx context.Context, pair Pair, out pairOutcome) bool {
	hasHistory := false
	switch {
	case out.hasHistory != nil:
		hasHistory = *out.hasHistory
	case out.kind == outcomeFresh:
		logx.WithContext(ctx).Errorf("sync: skip backfill symbol=%s market=%s: history unknown", pair.Symbol, pair.Market)
		return false
	default:
		has, err := o.gaps.HasData(ctx, pair.Symbol, pair.Market)
		if err != nil {
			logx.WithContext(ctx).Errorf("sync: gap check symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
			return false
		}
		hasHistory = has
	}
	if hasHistory {
		return false
	}

	res, err := o.backfiller.Backfill(ctx, pair, o.cfg.BackfillDays)
	if err != nil {
		logx.WithContext(ctx).Errorf("sync: backfill symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
		return false
	}
	logx.WithContext(ctx).Infof("sync: backfill symbol=%s market=%s fetched=%d inserted=%d failed_batches=%d",
		pair.Symbol, pair.Market, res.Fetched, res.Inserted, res.FailedBatches)
	return res.Inserted > 0
}

// PairBackfill is the per-pair outcome of a standalone backfill.
type PairBackfill struct {
	Pair   string         `json:"pair"`
	Result BackfillResult `json:"result"`
	Error  string         `json:"error,omitempty"`
}

// Backfill loads days of history for each pair regardless of existing data,
// then recomputes the pair's rollups. Pairs are processed sequentially with
// the configured throttle. Days defaults to the standalone setting.
func (o *Orchestrator) Backfill(ctx context.Context, pairs []Pair, days int) ([]PairBackfill, error) {
	if err := o.checkPreconditions(ctx); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = o.cfg.StandaloneDays
	}
	report := make([]PairBackfill, 0, len(pairs))
	for _, pair := range pairs {
		if ctx.Err() != nil {
			return report, fmt.Errorf("backfill interrupted: %w", ctx.Err())
		}
		entry := PairBackfill{Pair: pair.Key()}
		res, err := o.backfiller.Backfill(ctx, pair, days)
		entry.Result = res
		if err != nil {
			entry.Error = err.Error()
			logx.WithContext(ctx).Errorf("backfill: symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
		}
		if res.Inserted > 0 {
			if _, aggErr := o.aggregator.Recompute(ctx, pair.Symbol, pair.Market); aggErr != nil {
				logx.WithContext(ctx).Errorf("backfill: aggregate symbol=%s market=%s err=%v", pair.Symbol, pair.Market, aggErr)
			}
		}
		report = append(report, entry)
	}
	return report, nil
}

// Recompute rebuilds rollups for the given pairs, logging per-pair failures.
// It is used after bulk imports that bypass the fetch path.
func (o *Orchestrator) Recompute(ctx context.Context, pairs []Pair) int {
	done := 0
	for _, pair := range pairs {
		if _, err := o.aggregator.Recompute(ctx, pair.Symbol, pair.Market); err != nil {
			logx.WithContext(ctx).Errorf("aggregate: symbol=%s market=%s err=%v", pair.Symbol, pair.Market, err)
			continue
		}
		done++
	}
	return done
}
