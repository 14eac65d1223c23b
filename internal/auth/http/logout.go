package http

import (
	"errors"
	"net/http"

	"github.com/emberline/staffauth/internal/auth/service"
	"github.com/emberline/staffauth/pkg/httpx"
	"github.com/emberline/staffauth/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout. The authn middleware has already
// validated the access token, so by this point the employee code and raw
// token are in the request context.
type LogoutHandler struct {
	SessionService *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	code := httpx.EmployeeCodeFromCtx(ctx)
	token := httpx.BearerFromCtx(ctx)
	if code == "" || token == "" {
		httpx.WriteBearerError(w, "missing bearer token")
		return
	}

	if err := h.SessionService.Logout(ctx, code, token); err != nil {
		if errors.Is(err, service.ErrUnavailable) {
			httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily_unavailable",
				"Revocation backend unavailable, retry later.")
			return
		}
		log.Error("logout failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Unexpected error.")
		return
	}

	log.Info("employee logged out", "employee_code", code)
	w.WriteHeader(http.StatusNoContent)
}
