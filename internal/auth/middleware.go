package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"classpulse/internal/user"
)

const principalKey = "principal"

// UserLoader resolves a session's user id to the full account.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// RequireUser resolves the session cookie into the authenticated principal.
// Requests without a valid session are rejected with 401 before any handler
// runs.
func RequireUser(sessions *Manager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Set(principalKey, u)
		c.Next()
	}
}

// RequireRole rejects authenticated principals holding the wrong role with
// 403. Must run after RequireUser so the 401 check always wins.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := Principal(c)
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if u.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated account set by RequireUser, or nil.
func Principal(c *gin.Context) *user.User {
	val, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	u, _ := val.(*user.User)
	return u
}
