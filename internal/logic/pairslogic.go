package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/svc"
	"marketdesk-api/internal/types"
)

type PairsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewPairsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PairsLogic {
	return &PairsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *PairsLogic) Pairs() (*types.PairsResponse, error) {
	pairs := l.svcCtx.Orchestrator.Pairs()
	resp := &types.PairsResponse{Pairs: make([]types.PairItem, 0, len(pairs))}
	for _, p := range pairs {
		resp.Pairs = append(resp.Pairs, types.PairItem{
			Symbol:         p.Symbol,
			Market:         string(p.Market),
			ProviderSymbol: p.ProviderSymbol,
		})
	}
	return resp, nil
}
