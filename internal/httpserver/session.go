package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/backoffice/internal/auth"
)

const (
	sessionCookie = "session"
	guardKey      = "guard"
)

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(sessionCookie); err == nil {
		return token
	}
	return ""
}

// requireSession rejects requests without a live session and stores the
// request's guard for per-screen role checks.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		g := s.sessions.Guard(sessionToken(c))
		if !g.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrUnauthenticated.Error()})
			return
		}
		c.Set(guardKey, g)
		c.Next()
	}
}

func guardFrom(c *gin.Context) auth.Guard {
	if v, ok := c.Get(guardKey); ok {
		if g, ok := v.(auth.Guard); ok {
			return g
		}
	}
	return nil
}

// authorize writes the error response and reports false when the caller may
// not use a screen with the given roles.
func authorize(c *gin.Context, roles []string) bool {
	switch err := auth.Authorize(guardFrom(c), roles...); err {
	case nil:
		return true
	case auth.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	}
	return false
}
