package middleware

import (
	"net/http"

	"cnadmin/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionAuth rejects requests without a live login session. The resolved
// login user stays cached on the context for the handlers behind it.
func SessionAuth(h *session.Helper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Token(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		if h.LoginUser(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in or session expired"})
			c.Abort()
			return
		}

		c.Next()
	}
}
