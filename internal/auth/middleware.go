package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieName carries the session id.
const CookieName = "sb_session"

const principalKey = "principal"

// Authenticate resolves request credentials to a Principal without enforcing
// anything. It accepts the session cookie or a bearer JWT; when bypass is
// non-nil and no credential resolves, the synthetic principal is attached
// instead (development only, see config).
func Authenticate(sessions *Sessions, signingKey, issuer string, bypass *Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(CookieName); sessions != nil && err == nil && id != "" {
			if p, ok, err := sessions.Get(c.Request.Context(), id); err == nil && ok {
				c.Set(principalKey, p)
				c.Next()
				return
			}
		}
		if authz := c.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			tokenStr := strings.TrimSpace(authz[len("bearer "):])
			if p, err := Parse(tokenStr, signingKey, issuer); err == nil {
				c.Set(principalKey, p)
				c.Next()
				return
			}
		}
		if bypass != nil {
			c.Set(principalKey, *bypass)
		}
		c.Next()
	}
}

// RequireAuth aborts with 401 unless a principal is attached.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := FromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 without a principal and 403 without the admin
// flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := FromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !p.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// FromContext returns the request principal, if any.
func FromContext(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
