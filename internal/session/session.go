// Package session holds the single mutable authentication credential for a
// verification run. Auth operations (register/login/refresh, or an external
// OAuth2 bootstrap) write the token; every auth-required operation reads it.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the single token slot threaded through a run. The run itself is
// single-threaded, but the slot is guarded anyway so a Session can be shared
// with test servers observing it.
type Session struct {
	mu    sync.RWMutex
	token string
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Token returns the current bearer token, or "" when none is held.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken reports whether a non-empty token is held.
func (s *Session) HasToken() bool {
	return s.Token() != ""
}

// SetToken overwrites the current token. Empty values are ignored so a
// response without a token field never clears an established credential.
func (s *Session) SetToken(token string) {
	t := strings.TrimSpace(token)
	if t == "" {
		return
	}
	s.mu.Lock()
	s.token = t
	s.mu.Unlock()
}

// Clear drops the token. Used after logout.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// TokenInfo is the claim summary extracted from a JWT-shaped token.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Inspect parses the held token as a JWT without verifying its signature and
// returns the subject and expiry when present. The harness has no signing key
// for the server under test; this is for reporting only, never for
// authentication decisions.
func (s *Session) Inspect() (TokenInfo, bool) {
	tok := s.Token()
	if tok == "" {
		return TokenInfo{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		// Opaque tokens are fine; there is just nothing to report.
		return TokenInfo{}, false
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}
