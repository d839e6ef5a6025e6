package adminsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	var lastAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["username"] != "alice" || creds["password"] != "s3cret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "tok-1",
			"refresh_token": "ref-1",
			"user": map[string]any{
				"id": 1, "username": "alice", "fullname": "Alice", "role": RoleAdmin,
			},
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		lastAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, map[string]any{
			"user": map[string]any{
				"id": 1, "username": "alice", "fullname": "Alice", "role": RoleAdmin,
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		session := NewClient(srv.URL).NewSession(store)

		identity, err := session.Login(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		require.Equal(t, "alice", identity.Username)
		require.Equal(t, RoleAdmin, identity.Role)
		require.Equal(t, StateAuthenticated, session.State())

		pair, saved, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "tok-1", pair.AccessToken)
		require.Equal(t, "ref-1", pair.RefreshToken)
		require.Equal(t, "alice", saved.Username)

		// Subsequent calls carry the token from the login.
		_, err = session.Me(context.Background())
		require.NoError(t, err)
		require.Equal(t, "Bearer tok-1", lastAuth)
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		session := NewClient(srv.URL).NewSession(store)

		_, err := session.Login(context.Background(), "alice", "wrong")

		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, "invalid credentials", authErr.Message)
		require.Nil(t, session.Identity())

		pair, _, loadErr := store.Load()
		require.NoError(t, loadErr)
		require.Nil(t, pair, "failed login must not persist anything")
	})

	t.Run("rate limited", func(t *testing.T) {
		t.Parallel()

		session := NewClient(srv.URL).NewSession(NewMemoryStore(),
			WithLoginLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

		_, err := session.Login(context.Background(), "alice", "wrong")
		var authErr *AuthenticationError
		require.ErrorAs(t, err, &authErr)

		_, err = session.Login(context.Background(), "alice", "s3cret")
		require.ErrorIs(t, err, ErrTooManyLoginAttempts)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	t.Run("clears store even when backend fails", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		store := seedStore(t)
		hookCalled := false
		session := newTestSession(t, srv.URL, store, WithForcedLogoutHandler(func() { hookCalled = true }))

		require.NoError(t, session.Logout(context.Background()))
		require.Equal(t, StateUnauthenticated, session.State())
		require.False(t, hookCalled, "explicit logout is not a forced logout")

		pair, identity, err := store.Load()
		require.NoError(t, err)
		require.Nil(t, pair)
		require.Nil(t, identity)
	})

	t.Run("idempotent without a session", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected without a stored refresh token")
		}))
		defer srv.Close()

		session := NewClient(srv.URL).NewSession(NewMemoryStore())
		require.NoError(t, session.Logout(context.Background()))
		require.NoError(t, session.Logout(context.Background()))
		require.Equal(t, StateUnauthenticated, session.State())
	})
}

func TestRestore(t *testing.T) {
	t.Parallel()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()

		session := NewClient("http://localhost:0").NewSession(NewMemoryStore())
		require.Equal(t, StateRestoring, session.State())

		identity, err := session.Restore(context.Background())
		require.NoError(t, err)
		require.Nil(t, identity)
		require.Equal(t, StateUnauthenticated, session.State())
	})

	t.Run("valid persisted session", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{
				"user": map[string]any{
					"id": 1, "username": "alice", "fullname": "Alice", "role": RoleAdmin,
				},
			})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		session := NewClient(srv.URL).NewSession(seedStore(t))

		identity, err := session.Restore(context.Background())
		require.NoError(t, err)
		require.Equal(t, "alice", identity.Username)
		require.Equal(t, StateAuthenticated, session.State())
	})

	t.Run("expired token is renewed during validation", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "new-token"})
		})
		mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer new-token" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"user": map[string]any{
					"id": 1, "username": "alice", "fullname": "Alice", "role": RoleAdmin,
				},
			})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		session := NewClient(srv.URL).NewSession(seedStore(t))

		identity, err := session.Restore(context.Background())
		require.NoError(t, err)
		require.Equal(t, "alice", identity.Username)
		require.Equal(t, StateAuthenticated, session.State())
	})

	t.Run("unreachable backend clears the persisted session", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // connection refused from here on

		store := seedStore(t)
		session := NewClient(srv.URL).NewSession(store)

		_, err := session.Restore(context.Background())

		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		require.Equal(t, StateUnauthenticated, session.State())

		// A session that cannot be validated is never kept, network
		// failures included.
		pair, identity, loadErr := store.Load()
		require.NoError(t, loadErr)
		require.Nil(t, pair)
		require.Nil(t, identity)
	})

	t.Run("rejected session is cleared", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		store := seedStore(t)
		session := NewClient(srv.URL).NewSession(store)

		_, err := session.Restore(context.Background())
		require.Error(t, err)
		require.Equal(t, StateUnauthenticated, session.State())

		pair, _, loadErr := store.Load()
		require.NoError(t, loadErr)
		require.Nil(t, pair)
	})
}

func TestStateString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "restoring", StateRestoring.String())
	require.Equal(t, "unauthenticated", StateUnauthenticated.String())
	require.Equal(t, "authenticated", StateAuthenticated.String())
}
