package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/emberline/staffauth/internal/auth/service"
	"github.com/emberline/staffauth/pkg/httpx"
	"github.com/emberline/staffauth/pkg/jwtx"
	"github.com/emberline/staffauth/pkg/slogx"
)

// SessionHandler serves GET /v1/auth/session. It resolves the authenticated
// token back to the employee record so upstream services can introspect who
// is calling without sharing signing secrets.
type SessionHandler struct {
	SessionService *service.SessionService
}

type sessionResponse struct {
	EmployeeCode string    `json:"employee_code"`
	Name         string    `json:"name"`
	Region       string    `json:"region"`
	Role         string    `json:"role"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	raw := httpx.BearerFromCtx(ctx)
	if raw == "" {
		httpx.WriteBearerError(w, "missing bearer token")
		return
	}

	emp, claims, err := h.SessionService.Validate(ctx, raw, jwtx.ClassAccess)
	if err != nil {
		if errors.Is(err, service.ErrUnavailable) {
			httpx.WriteError(w, http.StatusServiceUnavailable, "temporarily_unavailable",
				"Validation backend unavailable, retry later.")
			return
		}
		log.Warn("session introspection failed", "err", err)
		httpx.WriteBearerError(w, bearerErrorDescription(err))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		EmployeeCode: emp.Code,
		Name:         emp.Name,
		Region:       emp.Region,
		Role:         claims.Role,
		ExpiresAt:    claims.ExpiresAt.Time,
	})
}
