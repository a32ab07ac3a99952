package handlers

import (
	"fmt"
	"strings"
	"time"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/redis"
	"soufra_admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	sessionKey   = "session"
)

// RequestLogger tags each request with an id and logs it once it completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status()),
			map[string]interface{}{
				"request_id":  requestID,
				"method":      c.Request.Method,
				"path":        c.Request.URL.Path,
				"status_code": c.Writer.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_addr": c.ClientIP(),
			})
	}
}

// RequireSuperAdmin rejects requests without a live super admin session.
func RequireSuperAdmin(auth services.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := auth.Authorize(c.Request.Context(), bearerToken(c))
		if err != nil {
			writeError(c, log, err)
			c.Abort()
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func currentSession(c *gin.Context) *redis.SessionData {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*redis.SessionData); ok {
			return session
		}
	}
	return nil
}
