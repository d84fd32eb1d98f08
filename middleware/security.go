package middleware

import (
	"net/http"

	"wellbeing/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimiter caps request bodies. Telemetry posts are tiny, so a
// declared length above the cap is rejected before anything is read.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.TrackError("request", "body_too_large")
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, &utils.Response{
				Status: http.StatusRequestEntityTooLarge,
				Error:  "Request body too large",
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
