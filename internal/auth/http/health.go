package http

import (
	"net/http"
	"time"

	"github.com/emberline/staffauth/internal/auth/store"
	"github.com/emberline/staffauth/pkg/httpx"
	"github.com/emberline/staffauth/pkg/slogx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// LivezHandler reports process liveness only. It must not touch backends;
// a dead Redis should fail readiness, not liveness.
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	})
}

// ReadyzHandler pings both stores. Either one failing means the service
// cannot issue or validate tokens, so the instance is pulled from rotation.
func ReadyzHandler(startTime time.Time, version string, employees store.Employees, revocations store.Revocations) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := slogx.FromContext(ctx)

		status := http.StatusOK
		body := healthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		}

		if err := employees.Ping(ctx); err != nil {
			log.Error("employee store not ready", "err", err)
			status = http.StatusServiceUnavailable
			body.Status = "degraded"
		}
		if err := revocations.Ping(ctx); err != nil {
			log.Error("revocation store not ready", "err", err)
			status = http.StatusServiceUnavailable
			body.Status = "degraded"
		}

		httpx.WriteJSON(w, status, body)
	})
}
