package cli

import (
	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/config"
	"marketdesk-api/internal/svc"
)

// MustBootstrap loads the main config, falls back to the project's default
// section files when the main config does not reference them, logs a summary
// and wires the service context.
func MustBootstrap(path string) (*config.Config, *svc.ServiceContext) {
	cfg := config.MustLoad(path)
	if cfg.Sync.Value == nil {
		cfg.Sync.Value = config.MustLoadSync()
	}
	if cfg.Quote.Value == nil && !cfg.IsTestEnv() {
		cfg.Quote.Value = config.MustLoadQuote()
	}
	LogConfigSummary(cfg)

	svcCtx, err := svc.NewServiceContext(*cfg)
	logx.Must(err)
	return cfg, svcCtx
}
