package svc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/syncx"

	"marketdesk-api/internal/auth"
	cachekeys "marketdesk-api/internal/cache"
	"marketdesk-api/internal/config"
	"marketdesk-api/internal/store"
	"marketdesk-api/pkg/pricesync"
	"marketdesk-api/pkg/pricesync/memstore"
	"marketdesk-api/pkg/quote"
	"marketdesk-api/pkg/quote/sim"
	_ "marketdesk-api/pkg/quote/twelvedata"
)

// PriceReader serves the read-only presentation feeds.
type PriceReader interface {
	ListPrices(ctx context.Context, q store.PriceQuery) ([]pricesync.PriceRecord, error)
	LatestPrices(ctx context.Context, pairs []pricesync.Pair) ([]pricesync.PriceRecord, error)
	ListMonthly(ctx context.Context, symbol string, market pricesync.Market) ([]pricesync.MonthlyAverage, error)
	ListYearly(ctx context.Context, symbol string, market pricesync.Market) ([]pricesync.YearlyAverage, error)
}

type ServiceContext struct {
	Config config.Config

	DBConn sqlx.SqlConn
	Cache  cache.Cache

	Store  pricesync.Store
	Reader PriceReader

	QuoteProvider quote.Provider
	SyncConfig    *pricesync.Config

	Authorizer   *auth.Authorizer
	Orchestrator *pricesync.Orchestrator
}

// NewServiceContext wires storage, the quote provider and the orchestrator.
// In the test environment a missing DSN falls back to an in-memory store and a
// missing quote section falls back to the simulator.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Config:     c,
		Authorizer: auth.New(c.Auth),
	}

	syncCfg, err := c.RequireSync()
	if err != nil {
		return nil, err
	}
	sc.SyncConfig = syncCfg

	if err := sc.initQuote(); err != nil {
		return nil, err
	}
	if err := sc.initStore(); err != nil {
		return nil, err
	}

	sc.Orchestrator = pricesync.NewOrchestrator(syncCfg, sc.QuoteProvider, sc.Store,
		pricesync.WithAuthorizer(sc.Authorizer))
	return sc, nil
}

func (s *ServiceContext) initQuote() error {
	quoteCfg := s.Config.Quote.Value
	if quoteCfg == nil {
		if !s.Config.IsTestEnv() {
			return errors.New("svc: Quote.File is required outside the test environment")
		}
		logx.Info("svc: Quote.File not set, using simulated quotes")
		s.QuoteProvider = sim.New()
		return nil
	}
	provider, err := quoteCfg.BuildDefault()
	if err != nil {
		return fmt.Errorf("svc: build quote provider: %w", err)
	}
	s.QuoteProvider = provider
	return nil
}

func (s *ServiceContext) initStore() error {
	c := s.Config
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		if !c.IsTestEnv() {
			return errors.New("svc: Postgres.DSN is required outside the test environment")
		}
		logx.Info("svc: Postgres.DSN not set, using in-memory store")
		mem := memstore.New()
		s.Store = mem
		s.Reader = memReader{mem}
		return nil
	}

	conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
	if db, err := conn.RawDB(); err == nil {
		db.SetMaxOpenConns(c.Postgres.MaxOpen)
		db.SetMaxIdleConns(c.Postgres.MaxIdle)
	}
	s.DBConn = conn

	if strings.TrimSpace(c.Redis.Host) != "" {
		rds := redis.MustNewRedis(c.Redis)
		s.Cache = cache.NewNode(rds, syncx.NewSingleFlight(), cache.NewStat("marketdesk"), sqlx.ErrNotFound)
	}

	pg := store.New(store.Config{
		Conn:  conn,
		Cache: s.Cache,
		TTL:   cachekeys.NewTTLSet(c.TTL),
	})
	s.Store = pg
	s.Reader = pg
	return nil
}
