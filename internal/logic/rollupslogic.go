package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"marketdesk-api/internal/svc"
	"marketdesk-api/internal/types"
)

type RollupsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewRollupsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *RollupsLogic {
	return &RollupsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *RollupsLogic) Monthly(req *types.RollupRequest) (*types.MonthlyResponse, error) {
	pair, err := resolvePair(l.svcCtx.SyncConfig, req.Symbol, req.Market)
	if err != nil {
		return nil, err
	}
	rows, err := l.svcCtx.Reader.ListMonthly(l.ctx, pair.Symbol, pair.Market)
	if err != nil {
		return nil, err
	}
	resp := &types.MonthlyResponse{
		Symbol: pair.Symbol,
		Market: string(pair.Market),
		Rows:   make([]types.MonthlyItem, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, types.MonthlyItem{
			Year:       r.Year,
			Month:      r.Month,
			AvgPrice:   decimalString(r.AvgPrice),
			AvgHigh:    decimalString(r.AvgHigh),
			AvgLow:     decimalString(r.AvgLow),
			DataPoints: r.DataPoints,
		})
	}
	return resp, nil
}

func (l *RollupsLogic) Yearly(req *types.RollupRequest) (*types.YearlyResponse, error) {
	pair, err := resolvePair(l.svcCtx.SyncConfig, req.Symbol, req.Market)
	if err != nil {
		return nil, err
	}
	rows, err := l.svcCtx.Reader.ListYearly(l.ctx, pair.Symbol, pair.Market)
	if err != nil {
		return nil, err
	}
	resp := &types.YearlyResponse{
		Symbol: pair.Symbol,
		Market: string(pair.Market),
		Rows:   make([]types.YearlyItem, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, types.YearlyItem{
			Year:       r.Year,
			AvgPrice:   decimalString(r.AvgPrice),
			AvgHigh:    decimalString(r.AvgHigh),
			AvgLow:     decimalString(r.AvgLow),
			DataPoints: r.DataPoints,
		})
	}
	return resp, nil
}
