package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"marketdesk-api/internal/logic"
	"marketdesk-api/internal/svc"
	"marketdesk-api/internal/types"
)

func PairsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewPairsLogic(r.Context(), svcCtx)
		resp, err := l.Pairs()
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func PricesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PricesRequest
		if err := httpx.Parse(r, &req); err != nil {
			writeBadRequest(w, r, err)
			return
		}

		l := logic.NewPricesLogic(r.Context(), svcCtx)
		resp, err := l.Prices(&req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func LatestPricesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewPricesLogic(r.Context(), svcCtx)
		resp, err := l.Latest()
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func MonthlyRollupsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RollupRequest
		if err := httpx.Parse(r, &req); err != nil {
			writeBadRequest(w, r, err)
			return
		}

		l := logic.NewRollupsLogic(r.Context(), svcCtx)
		resp, err := l.Monthly(&req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func YearlyRollupsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RollupRequest
		if err := httpx.Parse(r, &req); err != nil {
			writeBadRequest(w, r, err)
			return
		}

		l := logic.NewRollupsLogic(r.Context(), svcCtx)
		resp, err := l.Yearly(&req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
