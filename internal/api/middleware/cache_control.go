package middleware

import "github.com/gin-gonic/gin"

const (
	NoStore     = "no-store"
	MediaMaxAge = "public, max-age=86400"
)

// CacheControl sets the Cache-Control header on every response of the group.
func CacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
