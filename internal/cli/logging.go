package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/config"
	"marketdesk-api/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
// Secrets are reported only as configured or not.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Config dir: %s", cfg.BaseDir()),
		fmt.Sprintf("Postgres: %s", presence(cfg.Postgres.DSN != "")),
		fmt.Sprintf("Redis: %s", presence(strings.TrimSpace(cfg.Redis.Host) != "")),
		fmt.Sprintf("TTL (short/medium/long): %ds / %ds / %ds", cfg.TTL.Short, cfg.TTL.Medium, cfg.TTL.Long),
		fmt.Sprintf("Cron secret: %s", presence(cfg.Auth.CronSecret != "")),
		fmt.Sprintf("Admin token secret: %s", presence(cfg.Auth.AccessSecret != "")),
		fmt.Sprintf("Cron interval/timeout: %s / %s", cfg.Cron.Interval, cfg.Cron.Timeout),
		sectionLine("Quote config", cfg.Quote),
		sectionLine("Sync config", cfg.Sync),
	}
	if syncCfg := cfg.Sync.Value; syncCfg != nil {
		lines = append(lines, fmt.Sprintf("Pairs: %d (backfill %dd, batch %d, delay %s)",
			len(syncCfg.Pairs), syncCfg.BackfillDays, syncCfg.BackfillBatchSize, syncCfg.BackfillDelay))
	}
	if quoteCfg := cfg.Quote.Value; quoteCfg != nil {
		for _, name := range sortedKeys(quoteCfg.Providers) {
			p := quoteCfg.Providers[name]
			lines = append(lines, fmt.Sprintf("Quote provider %s (%s): api key %s", name, p.Type, presence(p.APIKey != "")))
		}
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
