package http

import (
	"errors"
	"net/http"

	"github.com/emberline/staffauth/internal/auth/service"
	"github.com/emberline/staffauth/pkg/httpx"
	"github.com/emberline/staffauth/pkg/jwtx"
	"github.com/emberline/staffauth/pkg/slogx"
)

// AuthnMiddleware authenticates the caller's bearer access token through the
// full validate path: signature, expiry, record lookup, and revocation check.
// A bare JWT verify is not enough here; a logged-out token still carries a
// good signature.
func AuthnMiddleware(svc *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := httpx.BearerToken(r)
			if raw == "" {
				httpx.WriteBearerError(w, "missing bearer token")
				return
			}

			_, claims, err := svc.Validate(ctx, raw, jwtx.ClassAccess)
			if err != nil {
				if errors.Is(err, service.ErrUnavailable) {
					log.Error("token validation unavailable", "err", err)
					httpx.WriteError(w, http.StatusServiceUnavailable,
						"temporarily_unavailable", "Validation backend unavailable, retry later.")
					return
				}
				log.Warn("token validation failed", "err", err)
				httpx.WriteBearerError(w, bearerErrorDescription(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(httpx.WithAuth(ctx, claims.EmployeeCode, raw)))
		})
	}
}

// bearerErrorDescription keeps the challenge specific enough for clients to
// act on (re-login vs refresh) without leaking which internal check tripped.
func bearerErrorDescription(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, service.ErrSessionExpired):
		return "session expired"
	default:
		return "token verification failed"
	}
}
