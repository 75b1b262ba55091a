package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/cli"
	"marketdesk-api/pkg/pricesync"
)

const (
	defaultInterval = time.Hour
	defaultTimeout  = 30 * time.Minute
	shutdownTimeout = 10 * time.Second // Grace period for the in-flight cycle
)

var configFile = flag.String("f", "etc/marketdesk.yaml", "the config file")

func main() {
	flag.Parse()
	logx.Info("[main] Starting sync scheduler...")

	cfg, svcCtx := cli.MustBootstrap(*configFile)

	interval := cfg.Cron.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	timeout := cfg.Cron.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logx.Infof("[main] Interval=%s timeout=%s pairs=%d", interval, timeout, len(svcCtx.Orchestrator.Pairs()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		runScheduler(ctx, svcCtx.Orchestrator, interval, timeout)
	}()

	<-ctx.Done()
	logx.Info("[main] Shutdown signal received, waiting for the current cycle...")

	select {
	case <-done:
		logx.Info("[main] Scheduler stopped cleanly")
	case <-time.After(shutdownTimeout):
		logx.Info("[main] Shutdown timeout exceeded, forcing exit")
	}
}

// runScheduler runs a cycle immediately and then on every tick until ctx ends.
func runScheduler(ctx context.Context, orch *pricesync.Orchestrator, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runCycle(ctx, orch, timeout)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runCycle(ctx, orch, timeout)
		}
	}
}

func runCycle(parent context.Context, orch *pricesync.Orchestrator, timeout time.Duration) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	res, err := orch.Sync(ctx)
	elapsed := time.Since(start)
	if err != nil {
		logx.WithContext(ctx).Errorf("[sync] [ERROR] %v, took %dms", err, elapsed.Milliseconds())
		if res == nil {
			return
		}
	}
	logx.WithContext(ctx).Infof("[sync] [OK] %s, took %dms", res.Message(), elapsed.Milliseconds())
	for _, key := range res.Failed {
		logx.WithContext(ctx).Infof("  - failed: %s", key)
	}
}
