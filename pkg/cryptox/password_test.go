package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	pepperPath := filepath.Join(os.TempDir(), "staffauth-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name string
		pin  string
	}{
		{"numeric pin", "482913"},
		{"alphanumeric", "P@ssw0rd!#$%"},
		{"long secret", strings.Repeat("a", 100)},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.pin)
			require.NoError(t, err)

			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("482913")
	require.NoError(t, err)

	t.Run("matching pin verifies", func(t *testing.T) {
		require.NoError(t, VerifyPassword("482913", hash))
	})

	t.Run("wrong pin fails", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("000000", hash), ErrMismatch)
	})

	t.Run("malformed hash fails", func(t *testing.T) {
		require.Error(t, VerifyPassword("482913", "not-a-phc-hash"))
		require.Error(t, VerifyPassword("482913", "$bcrypt$v=19$m=1,t=1,p=1$abc$def"))
	})
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("482913")
	require.NoError(t, err)
	b, err := HashPassword("482913")
	require.NoError(t, err)

	// Fresh salt per hash; both must still verify.
	require.NotEqual(t, a, b)
	require.NoError(t, VerifyPassword("482913", a))
	require.NoError(t, VerifyPassword("482913", b))
}
