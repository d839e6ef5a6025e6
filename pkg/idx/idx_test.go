package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	id := New()
	require.False(t, id.IsZero())
	require.Len(t, id.String(), 26)

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestNewAt(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	id := NewAt(at)
	require.True(t, id.Time().Equal(at))
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	t.Parallel()

	at := time.Now().UTC()
	a := NewAt(at)
	b := NewAt(at)
	require.Less(t, a.String(), b.String())
}

func TestParse(t *testing.T) {
	t.Parallel()

	_, err := Parse("")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)

	id, err := Parse("  " + New().String() + "  ")
	require.NoError(t, err)
	require.False(t, id.IsZero())
}

func TestZero(t *testing.T) {
	t.Parallel()

	require.True(t, Zero.IsZero())
	require.True(t, Zero.Time().IsZero())
	require.Panics(t, func() { MustParse("nope") })
}
