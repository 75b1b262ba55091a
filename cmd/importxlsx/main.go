package main

import (
	"context"
	"flag"
	"os"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/cli"
	"marketdesk-api/internal/importer"
	"marketdesk-api/pkg/pricesync"
)

var (
	configFile = flag.String("f", "etc/marketdesk.yaml", "the config file")
	input      = flag.String("file", "", "xlsx workbook with symbol, market, date, price columns")
	sheet      = flag.String("sheet", "", "sheet name (default first sheet)")
)

func main() {
	flag.Parse()
	if *input == "" {
		logx.Error("[import] -file is required")
		os.Exit(2)
	}

	_, svcCtx := cli.MustBootstrap(*configFile)

	file, err := os.Open(*input)
	if err != nil {
		logx.Errorf("[import] %v", err)
		os.Exit(1)
	}
	defer file.Close()

	res, err := importer.ReadWorkbook(file, *sheet)
	if err != nil {
		logx.Errorf("[import] %v", err)
		os.Exit(1)
	}
	logx.Infof("[import] parsed %d rows for %d pairs (%d blank rows skipped)", len(res.Records), len(res.Pairs), res.Skipped)

	ctx := context.Background()
	inserted, failedBatches := pricesync.InsertBatches(ctx, svcCtx.Store, res.Records, svcCtx.SyncConfig.BackfillBatchSize)
	logx.Infof("[import] inserted=%d failed_batches=%d", inserted, failedBatches)

	recomputed := svcCtx.Orchestrator.Recompute(ctx, res.Pairs)
	logx.Infof("[import] rollups recomputed for %d/%d pairs", recomputed, len(res.Pairs))
	if failedBatches > 0 {
		os.Exit(1)
	}
}
