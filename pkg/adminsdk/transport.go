package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hisptogo/arrimage-console/pkg/idx"
)

const headerRequestID = "X-Request-Id"

// statusTokenInvalid is the backend's signal for a structurally broken
// access token, distinct from an expired one.
const statusTokenInvalid = 498

// hasMarker reports whether the failure body's error message contains the
// given marker, case-insensitively. The backend distinguishes an expired
// access token from a rejected refresh token only through these markers.
func hasMarker(body []byte, marker string) bool {
	return strings.Contains(strings.ToLower(serverMessage(body)), marker)
}

// roundTrip sends one HTTP request and reads the full response body. A bearer
// token is attached when present; its absence is not an error at this layer.
// Transport failures (no response at all, including timeouts) come back as
// *TransportError and never touch session state.
func (s *Session) roundTrip(
	ctx context.Context,
	method, path, token string,
	body []byte,
) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerRequestID, idx.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}

	s.client.logger.Debug("api call",
		"request_id", req.Header.Get(headerRequestID),
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	return resp.StatusCode, respBody, nil
}

// do runs an authenticated request through the full response classification:
//
//  1. no response received        -> surfaced unchanged, session untouched
//  2. 403                         -> surfaced unchanged, never a logout
//  3. 401 with "expired" marker   -> silent refresh, then one retry
//  4. 401 with "refresh" marker   -> forced logout
//  5. 498                         -> forced logout
//  6. anything else non-expected  -> surfaced as *APIError
//
// A successful silent refresh is invisible to the caller: the original
// request is retried with the new token and its result returned. Only the
// expired branch is suppressed for the retried response; every other
// classification still applies, so a second expiry on the fresh token
// surfaces as a plain error instead of looping back into the refresh
// protocol, while a rejected refresh token or a 498 on the retry tears the
// session down as usual.
func (s *Session) do(
	ctx context.Context,
	method, path string,
	body []byte,
	out any,
	expect int,
) error {
	status, respBody, err := s.roundTrip(ctx, method, path, s.accessToken(), body)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && hasMarker(respBody, "expired") {
		newToken, refreshErr := s.refreshAccessToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}
		status, respBody, err = s.roundTrip(ctx, method, path, newToken, body)
		if err != nil {
			return err
		}
	}

	switch {
	case status == http.StatusForbidden:
		return parseAPIError(status, respBody)

	case status == http.StatusUnauthorized && hasMarker(respBody, "refresh"):
		return s.forceLogout("refresh token rejected")

	case status == statusTokenInvalid:
		return s.forceLogout("access token invalid")
	}

	if status != expect {
		return parseAPIError(status, respBody)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// accessToken reads the current access token from the store, or "" when no
// session is persisted. Some endpoints are public, so absence is fine here.
func (s *Session) accessToken() string {
	pair, _, err := s.store.Load()
	if err != nil || pair == nil {
		return ""
	}
	return pair.AccessToken
}

// refreshAccessToken drives the single-flight refresh protocol. Concurrent
// callers that hit an expired token while a refresh is already in flight
// block on the same call and all resume with the one new access token; the
// backend sees exactly one refresh request.
func (s *Session) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		pair, identity, loadErr := s.store.Load()
		if loadErr != nil || pair == nil || pair.RefreshToken == "" || identity == nil {
			return nil, s.forceLogout("no refresh token available")
		}

		tr, refreshErr := s.client.refreshGrant(ctx, pair.RefreshToken)
		if refreshErr != nil {
			s.client.logger.Warn("token refresh failed", "error", refreshErr)
			return nil, s.forceLogout("refresh failed")
		}

		// The backend may rotate the refresh token or keep the old one.
		newPair := TokenPair{
			AccessToken:  tr.AccessToken,
			RefreshToken: pair.RefreshToken,
		}
		if tr.RefreshToken != "" {
			newPair.RefreshToken = tr.RefreshToken
		}

		if saveErr := s.store.Save(newPair, *identity); saveErr != nil {
			return nil, fmt.Errorf("failed to persist refreshed tokens: %w", saveErr)
		}

		s.client.logger.Debug("access token refreshed")
		return tr.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// forceLogout tears the session down after an unrecoverable authorization
// failure. Unlike Logout it never notifies the backend: the credentials are
// already useless. The caller receives ErrSessionExpired and must treat it
// as terminal.
func (s *Session) forceLogout(reason string) error {
	if err := s.store.Clear(); err != nil {
		s.client.logger.Error("failed to clear token store", "error", err)
	}

	s.mu.Lock()
	s.state = StateUnauthenticated
	s.identity = nil
	s.mu.Unlock()

	s.client.logger.Warn("session terminated", "reason", reason)
	if s.onLogout != nil {
		s.onLogout()
	}

	return fmt.Errorf("%w: %s", ErrSessionExpired, reason)
}
