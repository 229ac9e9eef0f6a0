package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows the Obsidian webview to call the backend. The plugin runs
// under the app:// origin, so the policy is permissive on origin but
// explicit about the headers the plugin sends.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-OpenAI-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
