package store

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"marketdesk-api/internal/store/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.Equal(t, []string{"001_market_prices.sql", "002_rollups.sql"}, files)

	body, err := migrations.FS.ReadFile("002_rollups.sql")
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "PRIMARY KEY (symbol, market, year, month)"))
}

func TestNullableHelpers(t *testing.T) {
	require.False(t, nullableDecimal(decimal.Zero).Valid)
	require.True(t, nullableDecimal(decimal.NewFromInt(1)).Valid)
	require.False(t, nullablePtrDecimal(nil).Valid)
	v := int64(0)
	require.True(t, nullableInt(&v).Valid)
	require.False(t, nullableInt(nil).Valid)
}

func TestNewWithoutConnIsNil(t *testing.T) {
	require.Nil(t, New(Config{}))
}
