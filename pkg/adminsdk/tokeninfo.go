package adminsdk

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is a display-only view of the stored access token's claims.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenInfo decodes the stored access token's registered claims without
// verifying the signature. The client has no verification key and never
// makes authorization decisions from these values; expiry is always decided
// by the backend's 401 responses. This exists purely so the console can show
// when the token will lapse.
func (s *Session) TokenInfo() (*TokenInfo, error) {
	pair, _, err := s.store.Load()
	if err != nil || pair == nil {
		return nil, ErrNotAuthenticated
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	info := &TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
