package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/svc"
	"marketdesk-api/internal/types"
)

type SyncLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSyncLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SyncLogic {
	return &SyncLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Sync runs one authorized orchestrator cycle.
func (l *SyncLogic) Sync(credential string) (*types.SyncResponse, error) {
	res, err := l.svcCtx.Orchestrator.Run(l.ctx, credential)
	if err != nil {
		return nil, err
	}
	stats := res.Stats()
	return &types.SyncResponse{
		Success: true,
		Message: res.Message(),
		Stats: types.StatsView{
			Fresh:      stats.Fresh,
			Fallback:   stats.Fallback,
			Backfilled: stats.Backfilled,
			Failed:     stats.Failed,
		},
		Timestamp: formatTime(res.Timestamp),
	}, nil
}
