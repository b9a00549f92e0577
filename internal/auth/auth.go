// Package auth provides the session-presence and role check that guards
// back-office screens. It is deliberately thin: a token either maps to a
// role or it does not.
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnauthenticated is returned when no valid session is present.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the session role may not view a screen.
	ErrForbidden = errors.New("role not permitted")
)

// Guard is the credential check consulted when a protected screen mounts.
type Guard interface {
	IsAuthenticated() bool
	CurrentRole() (string, bool)
}

// Authorize checks g against the roles a screen accepts. An empty roles list
// admits any authenticated viewer.
func Authorize(g Guard, roles ...string) error {
	if g == nil || !g.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	role, ok := g.CurrentRole()
	if !ok || !slices.Contains(roles, role) {
		return ErrForbidden
	}
	return nil
}

// SessionStore maps session tokens to roles with expiry.
type SessionStore struct {
	sessions *cache.Cache
	ttl      time.Duration
}

// NewSessionStore returns a store whose sessions expire after ttl.
// A non-positive ttl keeps sessions until they are revoked.
func NewSessionStore(ttl time.Duration) *SessionStore {
	exp := ttl
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	cleanup := 10 * time.Minute
	if ttl > 0 && ttl < cleanup {
		cleanup = ttl
	}
	return &SessionStore{
		sessions: cache.New(exp, cleanup),
		ttl:      exp,
	}
}

// Grant registers token with role.
func (s *SessionStore) Grant(token, role string) {
	if token == "" {
		return
	}
	s.sessions.Set(token, role, cache.DefaultExpiration)
	log.Debug().Str("role", role).Msg("session granted")
}

// GrantAll registers every token in the map.
func (s *SessionStore) GrantAll(tokens map[string]string) {
	for token, role := range tokens {
		s.Grant(token, role)
	}
}

// Revoke removes token.
func (s *SessionStore) Revoke(token string) {
	s.sessions.Delete(token)
}

// Lookup returns the role bound to token.
func (s *SessionStore) Lookup(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	v, ok := s.sessions.Get(token)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return s.sessions.ItemCount()
}

// Guard returns a Guard bound to one session token.
func (s *SessionStore) Guard(token string) SessionGuard {
	return SessionGuard{store: s, token: token}
}

// SessionGuard checks a single token against a SessionStore on every call,
// so revocation and expiry take effect on the next screen mount.
type SessionGuard struct {
	store *SessionStore
	token string
}

// IsAuthenticated reports whether the token maps to a live session.
func (g SessionGuard) IsAuthenticated() bool {
	_, ok := g.CurrentRole()
	return ok
}

// CurrentRole returns the role of the live session.
func (g SessionGuard) CurrentRole() (string, bool) {
	if g.store == nil {
		return "", false
	}
	return g.store.Lookup(g.token)
}

// Static is a fixed Guard, useful for tests and single-operator consoles.
type Static struct {
	Role string
}

// IsAuthenticated reports whether a role is set.
func (s Static) IsAuthenticated() bool { return s.Role != "" }

// CurrentRole returns the fixed role.
func (s Static) CurrentRole() (string, bool) { return s.Role, s.Role != "" }
