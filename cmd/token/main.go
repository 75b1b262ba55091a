package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/auth"
	"marketdesk-api/internal/config"
)

var (
	configFile = flag.String("f", "etc/marketdesk.yaml", "the config file")
	subject    = flag.String("sub", "", "token subject, usually the operator's email")
	ttlFlag    = flag.Duration("ttl", 0, "token lifetime (0 uses Auth.AccessExpire)")
)

// token prints an admin bearer token accepted by the sync and backfill routes.
func main() {
	flag.Parse()

	if *subject == "" {
		logx.Error("[token] -sub is required")
		os.Exit(2)
	}
	cfg := config.MustLoad(*configFile)

	token, err := issue(cfg.Auth, *subject, *ttlFlag)
	if err != nil {
		logx.Errorf("[token] [ERROR] %v", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func issue(c config.AuthConf, subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Duration(c.AccessExpire) * time.Second
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token lifetime must be positive, got %s", ttl)
	}
	return auth.New(c).IssueToken(subject, auth.RoleAdmin, ttl)
}
