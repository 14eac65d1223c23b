package idx_test

import (
	"testing"
	"time"

	"github.com/emberline/staffauth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, id.IsZero())
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(in)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", in)
	}
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)

	// ULID time resolution is milliseconds.
	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
}

func TestSameInstantIDsDiffer(t *testing.T) {
	tm := time.Unix(42, 0).UTC()
	a := idx.NewAt(tm)
	b := idx.NewAt(tm)
	require.NotEqual(t, a, b)
}
