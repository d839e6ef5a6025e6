package adminsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// State is the session lifecycle position. There is no refresh-in-progress
// state: silent renewal is a transport detail, invisible here except that a
// failed refresh forces StateUnauthenticated exactly like a logout.
type State int

const (
	// StateRestoring is the initial state, before Restore has decided
	// whether a persisted session exists.
	StateRestoring State = iota

	// StateUnauthenticated means no identity is established.
	StateUnauthenticated

	// StateAuthenticated means an identity is established; it is the only
	// state in which Identity returns non-nil.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the process-wide authenticated session. It owns the transition
// between the three lifecycle states and proxies every console operation
// through the classified request path in transport.go.
type Session struct {
	client       *Client
	store        TokenStore
	loginLimiter *rate.Limiter
	onLogout     func()

	refreshGroup singleflight.Group

	mu       sync.RWMutex
	state    State
	identity *Identity
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns the authenticated identity, or nil outside
// StateAuthenticated. The returned value is a copy.
func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

func (s *Session) setAuthenticated(identity Identity) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.identity = &identity
	s.mu.Unlock()
}

func (s *Session) setUnauthenticated() {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.identity = nil
	s.mu.Unlock()
}

// Restore resumes a persisted session. With nothing usable in the store the
// session becomes unauthenticated. Otherwise the identity is adopted
// optimistically first, then validated against the backend; an expired access
// token is silently renewed by the transport during that validation. Any
// validation failure, an unreachable backend included, clears the persisted
// session: a session that cannot be validated is never kept.
func (s *Session) Restore(ctx context.Context) (*Identity, error) {
	pair, identity, err := s.store.Load()
	if err != nil || pair == nil || identity == nil {
		s.setUnauthenticated()
		return nil, nil
	}

	s.setAuthenticated(*identity)

	current, err := s.Me(ctx)
	if err != nil {
		s.client.logger.Warn("session restore validation failed", "error", err)
		if clearErr := s.store.Clear(); clearErr != nil {
			s.client.logger.Error("failed to clear token store", "error", clearErr)
		}
		s.setUnauthenticated()
		return nil, err
	}

	return current, nil
}

// Login authenticates with the backend and establishes the session. On
// failure the session stays unauthenticated and the error carries the
// server's message when one was given.
func (s *Session) Login(ctx context.Context, username, password string) (*Identity, error) {
	if !s.loginLimiter.Allow() {
		return nil, ErrTooManyLoginAttempts
	}

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, respBody, err := s.roundTrip(ctx, http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return nil, &AuthenticationError{Message: err.Error(), Err: err}
	}
	if status != http.StatusOK {
		msg := serverMessage(respBody)
		if msg == "" {
			msg = fmt.Sprintf("login failed with status %d", status)
		}
		return nil, &AuthenticationError{Message: msg}
	}

	var lr loginResponse
	if err := json.Unmarshal(respBody, &lr); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	pair := TokenPair{AccessToken: lr.AccessToken, RefreshToken: lr.RefreshToken}
	if err := s.store.Save(pair, lr.User); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.setAuthenticated(lr.User)
	s.client.logger.Info("logged in", "username", lr.User.Username, "role", lr.User.Role)

	return &lr.User, nil
}

// Logout ends the session. The backend is notified best-effort so it can
// invalidate the refresh token; a failed notification is logged and swallowed
// and never blocks the local teardown. The store is cleared unconditionally.
func (s *Session) Logout(ctx context.Context) error {
	pair, _, _ := s.store.Load()
	if pair != nil && pair.RefreshToken != "" {
		body, err := json.Marshal(map[string]string{"refresh_token": pair.RefreshToken})
		if err == nil {
			if err := s.do(ctx, http.MethodPost, "/auth/logout", body, nil, http.StatusOK); err != nil {
				s.client.logger.Warn("logout notification failed", "error", err)
			}
		}
	}

	if err := s.store.Clear(); err != nil {
		s.client.logger.Error("failed to clear token store", "error", err)
	}
	s.setUnauthenticated()

	return nil
}

// Me validates the current access token against the backend and returns the
// identity it reports. An expired token is silently renewed underneath.
func (s *Session) Me(ctx context.Context) (*Identity, error) {
	var mr meResponse
	if err := s.do(ctx, http.MethodGet, "/auth/me", nil, &mr, http.StatusOK); err != nil {
		return nil, err
	}
	return &mr.User, nil
}

// RefreshToken forces an immediate token renewal and returns the new access
// token. Normal callers never need this; the transport refreshes on demand.
func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	return s.refreshAccessToken(ctx)
}
