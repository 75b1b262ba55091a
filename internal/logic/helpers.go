package logic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketdesk-api/internal/types"
	"marketdesk-api/pkg/pricesync"
)

// ErrInvalidRequest marks caller mistakes; handlers answer 400.
var ErrInvalidRequest = errors.New("invalid request")

// maxBackfillDays bounds a single time_series request.
const maxBackfillDays = 5000

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// resolvePair maps request parameters onto a configured pair.
func resolvePair(cfg *pricesync.Config, symbol, market string) (pricesync.Pair, error) {
	if strings.TrimSpace(symbol) == "" {
		return pricesync.Pair{}, invalidf("symbol is required")
	}
	m, err := pricesync.ParseMarket(market)
	if err != nil {
		return pricesync.Pair{}, invalidf("%v", err)
	}
	pair, ok := cfg.FindPair(symbol, m)
	if !ok {
		return pricesync.Pair{}, invalidf("pair %s is not configured", pricesync.PairKey(symbol, m))
	}
	return pair, nil
}

func parseTimeParam(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, invalidf("%s must be RFC3339 or YYYY-MM-DD", name)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func decimalString(d decimal.Decimal) string {
	return d.StringFixed(4)
}

func toPriceItem(r pricesync.PriceRecord) types.PriceItem {
	item := types.PriceItem{
		Symbol:     r.Symbol,
		Market:     string(r.Market),
		Price:      decimalString(r.Price),
		Open:       decimalString(r.Open),
		High:       decimalString(r.High),
		Low:        decimalString(r.Low),
		Close:      decimalString(r.Close),
		Volume:     r.Volume,
		RecordedAt: formatTime(r.RecordedAt),
	}
	if r.Change24h != nil {
		item.Change24h = r.Change24h.StringFixed(4)
	}
	return item
}

func toPriceItems(records []pricesync.PriceRecord) []types.PriceItem {
	items := make([]types.PriceItem, 0, len(records))
	for _, r := range records {
		items = append(items, toPriceItem(r))
	}
	return items
}
