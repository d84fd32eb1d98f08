package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware sets the Cache-Control header, e.g. "no-store" for
// responses carrying personal wellbeing data.
func CacheControlMiddleware(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
