package main

import (
	"context"
	"flag"
	"os"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/cli"
	"marketdesk-api/internal/store"
)

var configFile = flag.String("f", "etc/marketdesk.yaml", "the config file")

func main() {
	flag.Parse()

	_, svcCtx := cli.MustBootstrap(*configFile)
	if svcCtx.DBConn == nil {
		logx.Error("[migrate] Postgres.DSN is not configured")
		os.Exit(2)
	}

	applied, err := store.RunMigrations(context.Background(), svcCtx.DBConn)
	if err != nil {
		logx.Errorf("[migrate] [ERROR] %v", err)
		os.Exit(1)
	}
	if len(applied) == 0 {
		logx.Info("[migrate] schema is up to date")
		return
	}
	for _, name := range applied {
		logx.Infof("[migrate] applied %s", name)
	}
}
