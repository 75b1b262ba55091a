package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/store"
	"marketdesk-api/internal/svc"
	"marketdesk-api/internal/types"
)

type PricesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPricesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PricesLogic {
	return &PricesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Prices lists raw records of one pair, newest first.
func (l *PricesLogic) Prices(req *types.PricesRequest) (*types.PricesResponse, error) {
	pair, err := resolvePair(l.svcCtx.SyncConfig, req.Symbol, req.Market)
	if err != nil {
		return nil, err
	}
	from, err := parseTimeParam("from", req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseTimeParam("to", req.To)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, invalidf("to must not be before from")
	}
	if req.Limit < 0 {
		return nil, invalidf("limit cannot be negative")
	}

	records, err := l.svcCtx.Reader.ListPrices(l.ctx, store.PriceQuery{
		Symbol: pair.Symbol,
		Market: pair.Market,
		From:   from,
		To:     to,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &types.PricesResponse{Prices: toPriceItems(records)}, nil
}

// Latest returns the newest record of every configured pair that has history.
func (l *PricesLogic) Latest() (*types.PricesResponse, error) {
	records, err := l.svcCtx.Reader.LatestPrices(l.ctx, l.svcCtx.Orchestrator.Pairs())
	if err != nil {
		return nil, err
	}
	return &types.PricesResponse{Prices: toPriceItems(records)}, nil
}
