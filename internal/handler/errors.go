package handler

import (
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"marketdesk-api/internal/logic"
	"marketdesk-api/internal/types"
	"marketdesk-api/pkg/pricesync"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, pricesync.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, logic.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, pricesync.ErrConfiguration), errors.Is(err, pricesync.ErrPersist):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logx.WithContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	httpx.WriteJsonCtx(r.Context(), w, code, &types.ErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteJsonCtx(r.Context(), w, http.StatusBadRequest, &types.ErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}
