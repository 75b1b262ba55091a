package cache

import (
	"strings"
	"time"

	"marketdesk-api/internal/config"
)

// Namespace is the Redis key prefix for the marketdesk application.
const Namespace = "marketdesk"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 30*time.Second),
		Medium: durationOrDefault(cfg.Medium, 5*time.Minute),
		Long:   durationOrDefault(cfg.Long, time.Hour),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

func pairParts(symbol, market string) (string, string) {
	return strings.ToUpper(strings.TrimSpace(symbol)), strings.ToUpper(strings.TrimSpace(market))
}

// PriceLatestKey holds the newest persisted record of a pair.
func PriceLatestKey(symbol, market string) string {
	s, m := pairParts(symbol, market)
	return formatKey("price", "latest", s, m)
}

// MonthlyRollupKey caches the monthly rollup list served to charts.
func MonthlyRollupKey(symbol, market string) string {
	s, m := pairParts(symbol, market)
	return formatKey("rollup", "monthly", s, m)
}

// YearlyRollupKey caches the yearly rollup list served to charts.
func YearlyRollupKey(symbol, market string) string {
	s, m := pairParts(symbol, market)
	return formatKey("rollup", "yearly", s, m)
}

// PriceTTL is short; the key is rewritten every sync cycle.
func PriceTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// RollupTTL returns the TTL for rollup lists. Upserts delete the keys, so
// this only bounds staleness after out-of-band writes.
func RollupTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}
