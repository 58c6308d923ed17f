package routes

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"alphawatch/internal/handlers"
	"alphawatch/internal/middleware"
	"alphawatch/internal/stream"
)

// SetupRouter builds the Gin router serving the read API and the live
// signal feed. hub may be nil when the feed is disabled.
func SetupRouter(h *handlers.Handler, hub *stream.Hub) *gin.Engine {
	r := gin.Default()

	r.Any("/health", func(c *gin.Context) {
		c.String(200, "ok")
	})

	r.Use(corsMiddleware())
	r.Use(middleware.RateLimiter(middleware.RateLimit{RequestsPerSecond: 10, Burst: 20}))

	signals := r.Group("/signals")
	{
		signals.GET("", h.ListSignals)
		signals.GET("/:mint", h.GetSignal)
	}

	following := r.Group("/following")
	{
		following.GET("/:handle", h.ListFollowEdges)
	}

	if hub != nil {
		r.GET("/ws/signals", hub.Handler)
	}

	return r
}

// corsMiddleware allows browser clients from the origins listed in
// ALLOWED_ORIGINS (comma separated).
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		var allowed []string
		for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				allowed = append(allowed, trimmed)
			}
		}
		for _, a := range allowed {
			if origin == a {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
