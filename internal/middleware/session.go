package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-booking-gateway/internal/session"
	"clinic-booking-gateway/internal/utils"
)

const sessionContextKey = "session"

// SessionMiddleware lifts the browser's bearer token into a session context
// for the clinic API client. The token is forwarded, not verified here; the
// backend rejects tokens it does not trust. Clearly expired sessions are
// turned away early to save the round trip.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		sess, err := session.FromToken(parts[1], time.Now())
		if err != nil {
			utils.Unauthorized(c, "Invalid session: "+err.Error())
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Set(sessionContextKey, sess)

		c.Next()
	}
}

// GetSessionFromContext returns the session set by SessionMiddleware.
func GetSessionFromContext(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
