package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/emberline/staffauth/internal/auth/service"
	"github.com/emberline/staffauth/internal/auth/store"
	"github.com/emberline/staffauth/pkg/httpx"
	"github.com/emberline/staffauth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	employees   store.Employees
	revocations store.Revocations

	SessionService *service.SessionService
}

func NewRouter(
	buildVersion string,
	employees store.Employees,
	revocations store.Revocations,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		employees:    employees,
		revocations:  revocations,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (credential attempts)
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - requires a valid access token; moderate limit
	logoutHandler := &LogoutHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByEmployee(httpx.ModerateLimit),
		),
	)

	// POST /refresh - validates the presented refresh token itself; strict
	// limit since it mints credentials
	refreshHandler := &RefreshHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /session - the validate operation exposed upward; lenient limit
	sessionHandler := &SessionHandler{SessionService: r.SessionService}
	r.Mux.Handle("GET /v1/auth/session",
		httpx.Chain(sessionHandler,
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByEmployee(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems poll)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.employees, r.revocations),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
