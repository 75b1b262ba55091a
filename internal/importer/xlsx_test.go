package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"marketdesk-api/pkg/pricesync"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadWorkbook(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Symbol", "Market", "Date", "Price", "Open", "High", "Low", "Close", "Volume"},
		{"cu", "lme", "2024-03-02", "9410.5", "9400", "9420", "9390", "9410.5", "120"},
		{"USD/THB", "FX", "2024-03-01", "35.12", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", ""},
		{"CU", "LME", "2024-03-01", "9400", "9390", "9405", "9380", "9400", ""},
	})

	res, err := ReadWorkbook(buf, "")
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, []pricesync.Pair{
		{Symbol: "CU", Market: pricesync.MarketLME},
		{Symbol: "USD/THB", Market: pricesync.MarketFX},
	}, res.Pairs)

	last := res.Records[2]
	require.Equal(t, "CU", last.Symbol)
	require.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), last.RecordedAt)
	require.Equal(t, "9420", last.High.String())
	require.NotNil(t, last.Volume)
	require.EqualValues(t, 120, *last.Volume)

	fx := res.Records[0]
	if fx.Symbol != "USD/THB" {
		fx = res.Records[1]
	}
	require.Equal(t, "USD/THB", fx.Symbol)
	require.True(t, fx.Open.Equal(fx.Price))
	require.Nil(t, fx.Volume)
}

func TestParseRowsErrors(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		wantErr string
	}{
		{name: "empty", rows: nil, wantErr: "sheet is empty"},
		{name: "missing column", rows: [][]string{{"symbol", "market", "date"}}, wantErr: `missing column "price"`},
		{name: "bad market", rows: [][]string{{"symbol", "market", "date", "price"}, {"CU", "COMEX", "2024-01-01", "1"}}, wantErr: "row 2"},
		{name: "bad price", rows: [][]string{{"symbol", "market", "date", "price"}, {"CU", "LME", "2024-01-01", "-3"}}, wantErr: "invalid price"},
		{name: "bad date", rows: [][]string{{"symbol", "market", "date", "price"}, {"CU", "LME", "March", "1"}}, wantErr: "invalid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRows(tt.rows)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseDateSerial(t *testing.T) {
	got, err := parseDate("45352")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
