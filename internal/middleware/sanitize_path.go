package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizePath strips markup from the request path before any handler reads
// path parameters out of it. The confirmation token route in particular
// echoes a path segment back through logs.
func SanitizePath() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		c.Request.URL.Path = policy.Sanitize(c.Request.URL.Path)
		c.Next()
	}
}
