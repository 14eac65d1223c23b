package httpx

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	// CtxKeyEmployeeCode holds the authenticated caller's employee code.
	CtxKeyEmployeeCode ctxKey = "employee_code"
	// CtxKeyBearerToken holds the raw bearer token the caller presented.
	// Logout needs the exact string to record the revocation.
	CtxKeyBearerToken ctxKey = "bearer_token"
)

// WithAuth stores the authenticated employee code and raw token on the
// context for downstream handlers.
func WithAuth(ctx context.Context, code, token string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyEmployeeCode, code)
	return context.WithValue(ctx, CtxKeyBearerToken, token)
}

// EmployeeCodeFromCtx returns the authenticated employee code, or "".
func EmployeeCodeFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmployeeCode).(string); ok {
		return v
	}
	return ""
}

// BearerFromCtx returns the raw bearer token stored by the authn middleware.
func BearerFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyBearerToken).(string); ok {
		return v
	}
	return ""
}

// EmployeeCodeKeyExtractor extracts the authenticated employee code from the
// request context for rate limiting.
func EmployeeCodeKeyExtractor(r *http.Request) string {
	return EmployeeCodeFromCtx(r.Context())
}
