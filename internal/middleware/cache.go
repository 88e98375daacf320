package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets a public Cache-Control header. maxAgeSeconds <= 0 disables caching.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxAgeSeconds <= 0 {
			c.Header("Cache-Control", "no-store")
		} else {
			c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		}
		c.Next()
	}
}
