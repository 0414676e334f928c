package middleware

import (
	"crypto/subtle"
	"time"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"gameday/internal/dto"
)

func LoggingMiddleware() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		c.Next()

		zlog.Logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

// AdminAuth gates admin routes on the shared event secret carried in the
// X-Admin-Token header.
func AdminAuth(token string) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		provided := c.GetHeader("X-Admin-Token")
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			dto.UnauthorizedError(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
