package adminsdk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore()

	pair, identity, err := m.Load()
	require.NoError(t, err)
	require.Nil(t, pair)
	require.Nil(t, identity)

	alice := Identity{ID: 1, Username: "alice", Role: RoleAdmin}
	require.NoError(t, m.Save(TokenPair{AccessToken: "tok", RefreshToken: "ref"}, alice))

	pair, identity, err = m.Load()
	require.NoError(t, err)
	require.Equal(t, "tok", pair.AccessToken)
	require.Equal(t, alice, *identity)

	// Load hands out copies, not aliases into the store.
	pair.AccessToken = "mutated"
	reloaded, _, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, "tok", reloaded.AccessToken)

	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())

	pair, identity, err = m.Load()
	require.NoError(t, err)
	require.Nil(t, pair)
	require.Nil(t, identity)
}
