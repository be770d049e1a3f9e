package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS adapts rs/cors to gin. origins is a comma-separated allow list; empty
// allows any origin. Preflight requests are answered here and never reach a
// handler.
func CORS(origins string) gin.HandlerFunc {
	allowed := []string{"*"}
	if o := strings.TrimSpace(origins); o != "" {
		allowed = nil
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				allowed = append(allowed, part)
			}
		}
	}
	h := cors.New(cors.Options{
		AllowedOrigins:       allowed,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:       []string{"X-Request-ID"},
		MaxAge:               600,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return func(c *gin.Context) {
		h.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			if !c.Writer.Written() {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Abort()
			return
		}
		c.Next()
	}
}
