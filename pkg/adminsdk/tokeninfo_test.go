package adminsdk

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenInfo(t *testing.T) {
	t.Parallel()

	t.Run("decodes registered claims", func(t *testing.T) {
		t.Parallel()

		issued := time.Now().Truncate(time.Second)
		expires := issued.Add(15 * time.Minute)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		}).SignedString([]byte("backend-secret-the-client-never-has"))
		require.NoError(t, err)

		store := NewMemoryStore()
		require.NoError(t, store.Save(
			TokenPair{AccessToken: token, RefreshToken: "ref"},
			Identity{ID: 1, Username: "alice", Role: RoleAdmin},
		))
		session := NewClient("http://localhost:0").NewSession(store)

		info, err := session.TokenInfo()
		require.NoError(t, err)
		require.Equal(t, "alice", info.Subject)
		require.True(t, info.IssuedAt.Equal(issued))
		require.True(t, info.ExpiresAt.Equal(expires))
	})

	t.Run("no stored session", func(t *testing.T) {
		t.Parallel()

		session := NewClient("http://localhost:0").NewSession(NewMemoryStore())
		_, err := session.TokenInfo()
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("opaque token", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		require.NoError(t, store.Save(
			TokenPair{AccessToken: "not-a-jwt", RefreshToken: "ref"},
			Identity{ID: 1, Username: "alice", Role: RoleAdmin},
		))
		session := NewClient("http://localhost:0").NewSession(store)

		_, err := session.TokenInfo()
		require.Error(t, err)
	})
}
