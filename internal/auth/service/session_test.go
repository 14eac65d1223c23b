package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/emberline/staffauth/internal/auth/domain"
	"github.com/emberline/staffauth/internal/auth/service"
	redisstore "github.com/emberline/staffauth/internal/auth/store/drivers/redis"
	"github.com/emberline/staffauth/internal/auth/store/drivers/sqlite"
	"github.com/emberline/staffauth/pkg/cryptox"
	"github.com/emberline/staffauth/pkg/idx"
	"github.com/emberline/staffauth/pkg/jwtx"
)

const (
	testIssuer     = "https://erp.example.com"
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 2 * 365 * 24 * time.Hour
	testCacheTTL   = 10 * time.Minute
)

type harness struct {
	svc *service.SessionService
	mr  *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	rev := redisstore.NewStoreWithClient(rdb, testCacheTTL)

	hash, err := cryptox.HashPassword("482913")
	require.NoError(t, err)

	require.NoError(t, st.CreateEmployee(context.Background(), domain.Employee{
		ID:      idx.New().String(),
		Code:    "E100",
		Name:    "Imran Qureshi",
		Region:  "north",
		PinHash: hash,
	}))

	svc, err := service.NewSessionService(st, rev, service.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Issuer:        testIssuer,
		AccessTTL:     testAccessTTL,
		RefreshTTL:    testRefreshTTL,
	})
	require.NoError(t, err)

	return &harness{svc: svc, mr: mr}
}

func TestLoginIssuesValidatingPair(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)

	emp, claims, err := h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.NoError(t, err)
	require.Equal(t, "E100", emp.Code)
	require.Equal(t, "Imran Qureshi", emp.Name)
	require.Equal(t, jwtx.ClassAccess, claims.TokenClass)

	_, claims, err = h.svc.Validate(ctx, pair.RefreshToken, jwtx.ClassRefresh)
	require.NoError(t, err)
	require.Equal(t, jwtx.ClassRefresh, claims.TokenClass)
	require.Equal(t, "E100", claims.EmployeeCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	t.Run("wrong pin", func(t *testing.T) {
		_, err := h.svc.Login(ctx, "E100", "000000")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown code yields the same error kind", func(t *testing.T) {
		_, err := h.svc.Login(ctx, "E404", "482913")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestPairClaimsDifferOnlyInClassAndExpiry(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	_, access, err := h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.NoError(t, err)
	_, refresh, err := h.svc.Validate(ctx, pair.RefreshToken, jwtx.ClassRefresh)
	require.NoError(t, err)

	require.Equal(t, access.EmployeeCode, refresh.EmployeeCode)
	require.Equal(t, access.Role, refresh.Role)
	require.Equal(t, access.Issuer, refresh.Issuer)
	require.Equal(t, access.IssuedAt.Time, refresh.IssuedAt.Time)

	require.WithinDuration(t, access.IssuedAt.Add(testAccessTTL), access.ExpiresAt.Time, time.Second)
	require.WithinDuration(t, refresh.IssuedAt.Add(testRefreshTTL), refresh.ExpiresAt.Time, time.Second)
	require.NotEqual(t, access.ExpiresAt.Time, refresh.ExpiresAt.Time)
}

func TestWrongClassSecretAlwaysFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	_, _, err = h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassRefresh)
	require.ErrorIs(t, err, service.ErrTokenInvalid)

	_, _, err = h.svc.Validate(ctx, pair.RefreshToken, jwtx.ClassAccess)
	require.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestLogoutRevokesOnlyThePresentedToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, "E100", pair.AccessToken))

	_, _, err = h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.ErrorIs(t, err, service.ErrSessionExpired)

	// The refresh token from the same login was not presented at logout and
	// stays honored.
	_, _, err = h.svc.Validate(ctx, pair.RefreshToken, jwtx.ClassRefresh)
	require.NoError(t, err)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, "E100", pair.AccessToken))
	require.NoError(t, h.svc.Logout(ctx, "E100", pair.AccessToken))

	_, _, err = h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.ErrorIs(t, err, service.ErrSessionExpired)
}

func TestRevocationForgottenAfterCacheWindow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, "E100", pair.AccessToken))
	_, _, err = h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.ErrorIs(t, err, service.ErrSessionExpired)

	// Once the cache entry expires the blacklist forgets the logout and the
	// still-unexpired token validates again. Documented behavior of the
	// TTL-bounded blacklist, not a bug.
	h.mr.FastForward(testCacheTTL + time.Second)

	_, _, err = h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.NoError(t, err)
}

func TestRefreshIssuesFreshStructurallyValidPair(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	original, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	rotated, err := h.svc.Refresh(ctx, "E100")
	require.NoError(t, err)
	require.NotEqual(t, original.AccessToken, rotated.AccessToken)
	require.NotEqual(t, original.RefreshToken, rotated.RefreshToken)

	_, claims, err := h.svc.Validate(ctx, rotated.AccessToken, jwtx.ClassAccess)
	require.NoError(t, err)
	require.Equal(t, "E100", claims.EmployeeCode)
	require.WithinDuration(t, claims.IssuedAt.Add(testAccessTTL), claims.ExpiresAt.Time, time.Second)

	_, claims, err = h.svc.Validate(ctx, rotated.RefreshToken, jwtx.ClassRefresh)
	require.NoError(t, err)
	require.WithinDuration(t, claims.IssuedAt.Add(testRefreshTTL), claims.ExpiresAt.Time, time.Second)
}

func TestValidateRejectsUnknownSubject(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	// A correctly signed token whose subject has no record behind it.
	signer, err := jwtx.NewSigner("test-access-secret")
	require.NoError(t, err)
	ghost, err := signer.Sign(jwtx.NewClaims("E999", jwtx.ClassAccess, testAccessTTL, testIssuer, time.Now().UTC()))
	require.NoError(t, err)

	_, _, err = h.svc.Validate(ctx, ghost, jwtx.ClassAccess)
	require.ErrorIs(t, err, service.ErrTokenInvalid)

	// Sanity: the real employee still validates.
	_, _, err = h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.NoError(t, err)
}

func TestValidateSurfacesCacheOutageAsTransient(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	pair, err := h.svc.Login(ctx, "E100", "482913")
	require.NoError(t, err)

	h.mr.SetError("connection refused")
	defer h.mr.SetError("")

	_, _, err = h.svc.Validate(ctx, pair.AccessToken, jwtx.ClassAccess)
	require.ErrorIs(t, err, service.ErrUnavailable)

	err = h.svc.Logout(ctx, "E100", pair.AccessToken)
	require.ErrorIs(t, err, service.ErrUnavailable)
}

func TestExpiredAccessToken(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// Mint an already-expired token with the service's access secret.
	signer, err := jwtx.NewSigner("test-access-secret")
	require.NoError(t, err)
	stale, err := signer.Sign(jwtx.NewClaims("E100", jwtx.ClassAccess, time.Minute, testIssuer,
		time.Now().UTC().Add(-time.Hour)))
	require.NoError(t, err)

	_, _, err = h.svc.Validate(ctx, stale, jwtx.ClassAccess)
	require.ErrorIs(t, err, service.ErrTokenExpired)
}
