// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package main

import (
	"flag"
	"fmt"

	"marketdesk-api/internal/cli"
	"marketdesk-api/internal/handler"

	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/marketdesk.yaml", "the config file")

func main() {
	flag.Parse()

	cfg, ctx := cli.MustBootstrap(*configFile)

	server := rest.MustNewServer(cfg.RestConf)
	defer server.Stop()

	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
