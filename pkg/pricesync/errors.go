package pricesync

import "errors"

var (
	// ErrFetchFailed marks an upstream failure for one pair. The pair is routed
	// to the fallback resolver.
	ErrFetchFailed = errors.New("pricesync: fetch failed")
	// ErrNoData means neither a fresh quote nor a persisted record exists.
	ErrNoData = errors.New("pricesync: no data available")
	// ErrPersist wraps a failed write of price records.
	ErrPersist = errors.New("pricesync: persist failed")
	// ErrAggregate wraps a failed rollup recomputation.
	ErrAggregate = errors.New("pricesync: aggregate failed")
	// ErrUnauthorized rejects a sync invocation before any pair is touched.
	ErrUnauthorized = errors.New("pricesync: unauthorized")
	// ErrConfiguration aborts a cycle when the upstream credential is missing.
	ErrConfiguration = errors.New("pricesync: configuration error")
	// ErrUnmapped is returned for pairs without a provider symbol.
	ErrUnmapped = errors.New("pricesync: pair has no provider symbol")
)
