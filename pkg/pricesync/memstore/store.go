package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketdesk-api/pkg/pricesync"
)

// Store is an in-memory implementation of pricesync.Store. Insert calls can be
// made to fail by ordinal to exercise partial-failure paths.
type Store struct {
	mu sync.RWMutex

	prices  map[string][]pricesync.PriceRecord
	monthly map[string]pricesync.MonthlyAverage
	yearly  map[string]pricesync.YearlyAverage

	insertCalls int
	insertFail  map[int]error
	pingErr     error
	latestErr   error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		prices:     make(map[string][]pricesync.PriceRecord),
		monthly:    make(map[string]pricesync.MonthlyAverage),
		yearly:     make(map[string]pricesync.YearlyAverage),
		insertFail: make(map[int]error),
	}
}

// FailInsert makes the n-th InsertPrices call (1-based) return err.
func (s *Store) FailInsert(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertFail[n] = err
}

// SetPingError makes Ping return err.
func (s *Store) SetPingError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

// SetLatestError makes LatestPrice return err.
func (s *Store) SetLatestError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestErr = err
}

// InsertCalls returns how many times InsertPrices was invoked.
func (s *Store) InsertCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.insertCalls
}

func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}

func (s *Store) InsertPrices(_ context.Context, records []pricesync.PriceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if err := s.insertFail[s.insertCalls]; err != nil {
		return err
	}
	for _, r := range records {
		if r.Symbol == "" || r.RecordedAt.IsZero() {
			return fmt.Errorf("memstore: invalid record %+v", r)
		}
	}
	for _, r := range records {
		key := r.Key()
		s.prices[key] = append(s.prices[key], r)
	}
	return nil
}

func (s *Store) LatestPrice(_ context.Context, symbol string, market pricesync.Market) (pricesync.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latestErr != nil {
		return pricesync.PriceRecord{}, s.latestErr
	}
	rows := s.prices[pricesync.PairKey(symbol, market)]
	if len(rows) == 0 {
		return pricesync.PriceRecord{}, pricesync.ErrNoData
	}
	latest := rows[0]
	for _, r := range rows[1:] {
		if !r.RecordedAt.Before(latest.RecordedAt) {
			latest = r
		}
	}
	return latest, nil
}

func (s *Store) PricesSince(_ context.Context, symbol string, market pricesync.Market, since time.Time) ([]pricesync.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []pricesync.PriceRecord
	for _, r := range s.prices[pricesync.PairKey(symbol, market)] {
		if !r.RecordedAt.Before(since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func monthlyKey(symbol string, market pricesync.Market, year, month int) string {
	return fmt.Sprintf("%s|%d|%02d", pricesync.PairKey(symbol, market), year, month)
}

func yearlyKey(symbol string, market pricesync.Market, year int) string {
	return fmt.Sprintf("%s|%d", pricesync.PairKey(symbol, market), year)
}

func (s *Store) UpsertMonthly(_ context.Context, rows []pricesync.MonthlyAverage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.monthly[monthlyKey(r.Symbol, r.Market, r.Year, r.Month)] = r
	}
	return nil
}

func (s *Store) UpsertYearly(_ context.Context, rows []pricesync.YearlyAverage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.yearly[yearlyKey(r.Symbol, r.Market, r.Year)] = r
	}
	return nil
}

// Prices returns every stored record for a pair, oldest first.
func (s *Store) Prices(symbol string, market pricesync.Market) []pricesync.PriceRecord {
	out, _ := s.PricesSince(context.Background(), symbol, market, time.Time{})
	return out
}

// Monthly returns the monthly rollups of a pair ordered by period.
func (s *Store) Monthly(symbol string, market pricesync.Market) []pricesync.MonthlyAverage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := pricesync.PairKey(symbol, market) + "|"
	var out []pricesync.MonthlyAverage
	for k, v := range s.monthly {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// Yearly returns the yearly rollups of a pair ordered by year.
func (s *Store) Yearly(symbol string, market pricesync.Market) []pricesync.YearlyAverage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := pricesync.PairKey(symbol, market) + "|"
	var out []pricesync.YearlyAverage
	for k, v := range s.yearly {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
