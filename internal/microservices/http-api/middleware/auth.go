package middleware

import (
	"errors"
	"net/http"
	"strings"

	"blindtasting/internal/microservices/http-api/service"
	"blindtasting/internal/middleware/auth"

	"github.com/gin-gonic/gin"
)

const (
	// AdminSecretHeader carries the shared admin secret.
	AdminSecretHeader = "X-Admin-Secret"

	sessionKey = "session"
)

// RequireAdmin accepts the admin secret in the X-Admin-Secret header, or
// either the secret or an admin token as "Authorization: Bearer <value>".
func RequireAdmin(adminService service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := c.GetHeader(AdminSecretHeader)
		if credential == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing admin credential"})
				return
			}
			// format: "Bearer <secret or token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
				return
			}
			credential = strings.TrimSpace(parts[1])
		}

		if err := adminService.Authenticate(credential); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin credential"})
			return
		}
		c.Next()
	}
}

// RequireSession verifies the participant session cookie and stores the
// session for CurrentSession.
func RequireSession(signer *auth.SessionSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "join the tasting first"})
			return
		}

		sess, err := signer.Verify(token)
		if err != nil {
			msg := "invalid session"
			if errors.Is(err, auth.ErrExpiredSession) {
				msg = "session has expired, join again"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession.
func CurrentSession(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	sess, ok := v.(auth.Session)
	return sess, ok
}
