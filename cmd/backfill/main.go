package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/cli"
	"marketdesk-api/pkg/pricesync"
)

var (
	configFile = flag.String("f", "etc/marketdesk.yaml", "the config file")
	days       = flag.Int("days", 0, "days of history to load (0 uses standalone_backfill_days)")
	pairFlag   = flag.String("pair", "", "comma separated SYMBOL:MARKET keys (default all pairs)")
)

func main() {
	flag.Parse()

	_, svcCtx := cli.MustBootstrap(*configFile)

	pairs, err := selectPairs(svcCtx.SyncConfig, *pairFlag)
	if err != nil {
		logx.Errorf("[backfill] %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := svcCtx.Orchestrator.Backfill(ctx, pairs, *days)
	if err != nil {
		logx.Errorf("[backfill] [ERROR] %v", err)
		os.Exit(1)
	}

	failed := false
	for _, entry := range report {
		if entry.Error != "" {
			failed = true
			logx.Errorf("[backfill.%s] [ERROR] %s", entry.Pair, entry.Error)
			continue
		}
		logx.Infof("[backfill.%s] [OK] fetched=%d inserted=%d failed_batches=%d",
			entry.Pair, entry.Result.Fetched, entry.Result.Inserted, entry.Result.FailedBatches)
	}
	if failed {
		os.Exit(1)
	}
}

func selectPairs(cfg *pricesync.Config, raw string) ([]pricesync.Pair, error) {
	if strings.TrimSpace(raw) == "" {
		return cfg.Pairs, nil
	}
	var pairs []pricesync.Pair
	for _, key := range strings.Split(raw, ",") {
		symbol, market, err := pricesync.ParsePairKey(strings.TrimSpace(key))
		if err != nil {
			return nil, err
		}
		pair, ok := cfg.FindPair(symbol, market)
		if !ok {
			return nil, fmt.Errorf("pair %s is not configured", pricesync.PairKey(symbol, market))
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
