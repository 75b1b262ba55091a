package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"marketdesk-api/internal/auth"
	"marketdesk-api/internal/logic"
	"marketdesk-api/internal/svc"
	"marketdesk-api/internal/types"
)

func SyncHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewSyncLogic(r.Context(), svcCtx)
		resp, err := l.Sync(auth.CredentialFromRequest(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func BackfillHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.BackfillRequest
		if err := httpx.Parse(r, &req); err != nil {
			writeBadRequest(w, r, err)
			return
		}

		l := logic.NewBackfillLogic(r.Context(), svcCtx)
		resp, err := l.Backfill(auth.CredentialFromRequest(r), &req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
