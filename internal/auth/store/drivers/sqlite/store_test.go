package sqlite_test

import (
	"context"
	"testing"

	"github.com/emberline/staffauth/internal/auth/domain"
	"github.com/emberline/staffauth/internal/auth/store"
	"github.com/emberline/staffauth/internal/auth/store/drivers/sqlite"
	"github.com/emberline/staffauth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestEmployeeRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	emp := domain.Employee{
		ID:      idx.New().String(),
		Code:    "E100",
		Name:    "Imran Qureshi",
		Region:  "north",
		PinHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
	require.NoError(t, st.CreateEmployee(ctx, emp))

	got, err := st.GetByCode(ctx, "E100")
	require.NoError(t, err)
	require.Equal(t, emp.ID, got.ID)
	require.Equal(t, emp.Code, got.Code)
	require.Equal(t, emp.Name, got.Name)
	require.Equal(t, emp.Region, got.Region)
	require.Equal(t, emp.PinHash, got.PinHash)
	require.False(t, got.CreatedAt.IsZero())
}

func TestGetByCodeNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, err := st.GetByCode(ctx, "E404")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateEmployeeDuplicateCode(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	emp := domain.Employee{ID: idx.New().String(), Code: "E100", Name: "a", PinHash: "h"}
	require.NoError(t, st.CreateEmployee(ctx, emp))

	dup := domain.Employee{ID: idx.New().String(), Code: "E100", Name: "b", PinHash: "h"}
	require.ErrorIs(t, st.CreateEmployee(ctx, dup), store.ErrAlreadyExists)
}

func TestPing(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Ping(context.Background()))
}
