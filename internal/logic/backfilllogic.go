package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/svc"
	"marketdesk-api/internal/types"
	"marketdesk-api/pkg/pricesync"
)

type BackfillLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewBackfillLogic(ctx context.Context, svcCtx *svc.ServiceContext) *BackfillLogic {
	return &BackfillLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Backfill loads history for one pair, every pair of a market, or all pairs.
func (l *BackfillLogic) Backfill(credential string, req *types.BackfillRequest) (*types.BackfillResponse, error) {
	orch := l.svcCtx.Orchestrator
	if err := orch.Authorize(l.ctx, credential); err != nil {
		return nil, err
	}
	if req.Days < 0 || req.Days > maxBackfillDays {
		return nil, invalidf("days must be between 1 and %d", maxBackfillDays)
	}
	pairs, err := l.selectPairs(req)
	if err != nil {
		return nil, err
	}

	report, err := orch.Backfill(l.ctx, pairs, req.Days)
	if err != nil {
		return nil, err
	}

	resp := &types.BackfillResponse{
		Success:   true,
		Results:   make([]types.BackfillItem, 0, len(report)),
		Timestamp: formatTime(time.Now()),
	}
	inserted := 0
	for _, entry := range report {
		if entry.Error != "" {
			resp.Success = false
		}
		inserted += entry.Result.Inserted
		resp.Results = append(resp.Results, types.BackfillItem{
			Pair:          entry.Pair,
			Fetched:       entry.Result.Fetched,
			Inserted:      entry.Result.Inserted,
			FailedBatches: entry.Result.FailedBatches,
			Error:         entry.Error,
		})
	}
	resp.Message = fmt.Sprintf("backfill completed: %d pairs, %d records inserted", len(report), inserted)
	l.Infof("backfill: pairs=%d inserted=%d", len(report), inserted)
	return resp, nil
}

func (l *BackfillLogic) selectPairs(req *types.BackfillRequest) ([]pricesync.Pair, error) {
	symbol := strings.TrimSpace(req.Symbol)
	market := strings.TrimSpace(req.Market)
	switch {
	case symbol != "":
		pair, err := resolvePair(l.svcCtx.SyncConfig, symbol, market)
		if err != nil {
			return nil, err
		}
		return []pricesync.Pair{pair}, nil
	case market != "":
		m, err := pricesync.ParseMarket(market)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		var pairs []pricesync.Pair
		for _, p := range l.svcCtx.Orchestrator.Pairs() {
			if p.Market == m {
				pairs = append(pairs, p)
			}
		}
		if len(pairs) == 0 {
			return nil, invalidf("no pairs configured for market %s", m)
		}
		return pairs, nil
	default:
		return l.svcCtx.Orchestrator.Pairs(), nil
	}
}
