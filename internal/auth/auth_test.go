package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		guard Guard
		roles []string
		want  error
	}{
		{name: "nil guard", guard: nil, want: ErrUnauthenticated},
		{name: "no role", guard: Static{}, want: ErrUnauthenticated},
		{name: "any role admitted", guard: Static{Role: "support"}},
		{name: "role listed", guard: Static{Role: "admin"}, roles: []string{"admin", "compliance"}},
		{name: "role not listed", guard: Static{Role: "support"}, roles: []string{"admin"}, want: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.guard, tt.roles...)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSessionStore_GrantLookupRevoke(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(time.Hour)
	s.GrantAll(map[string]string{"tok-a": "admin", "tok-s": "support", "": "ignored"})
	assert.Equal(t, 2, s.Len())

	role, ok := s.Lookup("tok-a")
	require.True(t, ok)
	assert.Equal(t, "admin", role)

	g := s.Guard("tok-s")
	assert.True(t, g.IsAuthenticated())
	assert.NoError(t, Authorize(g, "support"))

	s.Revoke("tok-s")
	assert.False(t, g.IsAuthenticated(), "revoked session still authenticated")
	assert.ErrorIs(t, Authorize(g), ErrUnauthenticated)

	_, ok = s.Lookup("")
	assert.False(t, ok)
}

func TestSessionStore_Expiry(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(20 * time.Millisecond)
	s.Grant("tok", "admin")
	require.True(t, s.Guard("tok").IsAuthenticated())

	assert.Eventually(t, func() bool {
		return !s.Guard("tok").IsAuthenticated()
	}, time.Second, 10*time.Millisecond)
}

func TestSessionStore_NoExpiry(t *testing.T) {
	t.Parallel()

	s := NewSessionStore(0)
	s.Grant("tok", "analyst")
	role, ok := s.Guard("tok").CurrentRole()
	assert.True(t, ok)
	assert.Equal(t, "analyst", role)
}
