package http

import (
	"errors"
	"net/http"

	"github.com/emberline/staffauth/internal/auth/service"
	"github.com/emberline/staffauth/pkg/httpx"
	"github.com/emberline/staffauth/pkg/jwtx"
	"github.com/emberline/staffauth/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh. The caller presents the
// refresh token as the bearer credential; it is validated here (signature,
// expiry, revocation) before a fresh pair is minted.
type RefreshHandler struct {
	SessionService *service.SessionService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	raw := httpx.BearerToken(r)
	if raw == "" {
		httpx.WriteBearerError(w, "missing bearer token")
		return
	}

	_, claims, err := h.SessionService.Validate(ctx, raw, jwtx.ClassRefresh)
	if err != nil {
		if errors.Is(err, service.ErrUnavailable) {
			log.Error("refresh validation unavailable", "err", err)
			httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily_unavailable",
				"Validation backend unavailable, retry later.")
			return
		}
		log.Warn("refresh token rejected", "err", err)
		httpx.WriteBearerError(w, bearerErrorDescription(err))
		return
	}

	pair, err := h.SessionService.Refresh(ctx, claims.EmployeeCode)
	if err != nil {
		if errors.Is(err, service.ErrUnavailable) {
			httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily_unavailable",
				"Token backend unavailable, retry later.")
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Unexpected error.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}
