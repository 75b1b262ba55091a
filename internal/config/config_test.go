package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "marketdesk-api/pkg/quote/sim"
	_ "marketdesk-api/pkg/quote/twelvedata"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadHydratesSections(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MARKETDESK_TEST_CRON_SECRET", "s3cret")
	t.Setenv("MARKETDESK_TEST_TD_KEY", "td-key")

	writeFile(t, dir, "quote.yaml", `
default: twelvedata
providers:
  twelvedata:
    type: twelvedata
    api_key: ${MARKETDESK_TEST_TD_KEY}
    timeout: 5s
`)
	writeFile(t, dir, "sync.yaml", `
backfill_delay: 1s
pairs:
  - {symbol: USD/THB, market: FX, provider_symbol: USD/THB}
`)
	main := writeFile(t, dir, "marketdesk.yaml", `
Name: marketdesk-api
Host: 127.0.0.1
Port: 8888
Env: dev
Auth:
  CronSecret: ${MARKETDESK_TEST_CRON_SECRET}
Cron:
  Interval: 15m
Quote:
  File: quote.yaml
Sync:
  File: sync.yaml
`)

	cfg, err := Load(main)
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "s3cret", cfg.Auth.CronSecret)
	require.Equal(t, 15*time.Minute, cfg.Cron.Interval)
	require.Equal(t, 30*time.Minute, cfg.Cron.Timeout)
	require.Equal(t, 30, cfg.TTL.Short)
	require.Equal(t, dir, cfg.BaseDir())

	quoteCfg, err := cfg.RequireQuote()
	require.NoError(t, err)
	require.Equal(t, "td-key", quoteCfg.Providers["twelvedata"].APIKey)
	require.Equal(t, filepath.Join(dir, "quote.yaml"), cfg.Quote.File)

	syncCfg, err := cfg.RequireSync()
	require.NoError(t, err)
	require.Len(t, syncCfg.Pairs, 1)
	require.Equal(t, time.Second, syncCfg.BackfillDelay)
}

func TestLoadWithoutSections(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "marketdesk.yaml", "Name: marketdesk-api\nHost: 0.0.0.0\nPort: 8888\n")

	cfg, err := Load(main)
	require.NoError(t, err)
	require.True(t, cfg.IsTestEnv())
	_, err = cfg.RequireSync()
	require.Error(t, err)
	_, err = cfg.RequireQuote()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "bad env", cfg: Config{Env: "staging", TTL: CacheTTL{1, 1, 1}}, wantErr: "env must be one of"},
		{name: "zero ttl", cfg: Config{Env: "prod", TTL: CacheTTL{0, 1, 1}}, wantErr: "ttl.short"},
		{name: "negative cron", cfg: Config{Env: "prod", TTL: CacheTTL{1, 1, 1}, Cron: CronConf{Interval: -time.Second}}, wantErr: "cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}

	ok := Config{TTL: CacheTTL{1, 1, 1}}
	require.NoError(t, ok.Validate())
	require.Equal(t, "test", ok.Env)
}

func TestShippedConfigLoads(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("MARKETDESK_ENV", "dev")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost:5432/marketdesk?sslmode=disable")
	t.Setenv("REDIS_HOST", "localhost:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("CRON_SECRET", "cron")
	t.Setenv("ADMIN_JWT_SECRET", "jwt")
	t.Setenv("TWELVEDATA_API_KEY", "td")

	cfg := MustLoadDefault()
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, time.Hour, cfg.Cron.Interval)

	quoteCfg, err := cfg.RequireQuote()
	require.NoError(t, err)
	require.Equal(t, "twelvedata", quoteCfg.Default)
	require.Equal(t, "td", quoteCfg.Providers["twelvedata"].APIKey)

	syncCfg, err := cfg.RequireSync()
	require.NoError(t, err)
	require.Equal(t, 8*time.Second, syncCfg.BackfillDelay)
	require.NotEmpty(t, syncCfg.Pairs)

	require.Equal(t, syncCfg.Pairs, MustLoadSync().Pairs)
	require.Equal(t, quoteCfg.Default, MustLoadQuote().Default)
}
