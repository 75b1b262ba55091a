// Package importer reads historical price rows from Excel workbooks.
package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"marketdesk-api/pkg/pricesync"
)

// Columns recognised in the header row. Only symbol, market, date and price
// are required; missing OHLC values fall back to price.
var requiredColumns = []string{"symbol", "market", "date", "price"}

var dateLayouts = []string{
	time.RFC3339,
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// Result is the parsed content of one sheet.
type Result struct {
	Records []pricesync.PriceRecord
	Pairs   []pricesync.Pair
	Skipped int
}

// ReadWorkbook parses sheet (the first sheet when empty) from r.
func ReadWorkbook(r io.Reader, sheet string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("importer: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("importer: read sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, errors.New("importer: sheet is empty")
	}
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("importer: missing column %q", col)
		}
	}

	res := &Result{}
	seen := make(map[string]pricesync.Pair)
	for i, row := range rows[1:] {
		line := i + 2
		cell := func(name string) string {
			idx, ok := index[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if cell("symbol") == "" && cell("price") == "" {
			res.Skipped++
			continue
		}
		rec, err := parseRecord(cell)
		if err != nil {
			return nil, fmt.Errorf("importer: row %d: %w", line, err)
		}
		res.Records = append(res.Records, rec)
		if _, ok := seen[rec.Key()]; !ok {
			seen[rec.Key()] = pricesync.Pair{Symbol: rec.Symbol, Market: rec.Market}
		}
	}

	for _, p := range seen {
		res.Pairs = append(res.Pairs, p)
	}
	sort.Slice(res.Pairs, func(i, j int) bool { return res.Pairs[i].Key() < res.Pairs[j].Key() })
	sort.SliceStable(res.Records, func(i, j int) bool { return res.Records[i].RecordedAt.Before(res.Records[j].RecordedAt) })
	return res, nil
}

func parseRecord(cell func(string) string) (pricesync.PriceRecord, error) {
	symbol := strings.ToUpper(cell("symbol"))
	if symbol == "" {
		return pricesync.PriceRecord{}, errors.New("symbol is empty")
	}
	market, err := pricesync.ParseMarket(cell("market"))
	if err != nil {
		return pricesync.PriceRecord{}, err
	}
	recordedAt, err := parseDate(cell("date"))
	if err != nil {
		return pricesync.PriceRecord{}, err
	}
	price, err := decimal.NewFromString(cell("price"))
	if err != nil || !price.IsPositive() {
		return pricesync.PriceRecord{}, fmt.Errorf("invalid price %q", cell("price"))
	}

	rec := pricesync.PriceRecord{
		Symbol:     symbol,
		Market:     market,
		Price:      price.Round(4),
		RecordedAt: recordedAt,
	}
	for _, f := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"open", &rec.Open},
		{"high", &rec.High},
		{"low", &rec.Low},
		{"close", &rec.Close},
	} {
		raw := cell(f.name)
		if raw == "" {
			*f.dst = rec.Price
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return pricesync.PriceRecord{}, fmt.Errorf("invalid %s %q", f.name, raw)
		}
		*f.dst = v.Round(4)
	}
	if raw := cell("volume"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return pricesync.PriceRecord{}, fmt.Errorf("invalid volume %q", raw)
		}
		vol := int64(v)
		rec.Volume = &vol
	}
	return rec, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("date is empty")
	}
	// raw cell values carry Excel serial dates
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
		}
		return t.UTC(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
