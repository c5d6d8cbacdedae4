package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/http/middleware"
)

var (
	corsMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	corsAllowHeaders = []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderIdempotencyKey,
	}
	corsExposeHeaders = []string{
		"X-Request-ID", "Content-Length", "ETag",
		middleware.HeaderIdempotencyReplayed,
	}
)

// corsPolicy answers every origin with "*" when origins is empty, and
// otherwise echoes allow-listed origins only. Credentials are never allowed.
//
// The leading handler sets Access-Control-Allow-Origin before the cors
// package runs, so same-origin requests without an Origin header carry it too.
func corsPolicy(origins []string) []gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:  corsMethods,
		AllowHeaders:  corsAllowHeaders,
		ExposeHeaders: corsExposeHeaders,
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		conf.AllowAllOrigins = true
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Header("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(conf),
		}
	}

	conf.AllowOrigins = origins
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if o := c.GetHeader("Origin"); allowed[o] {
				c.Header("Access-Control-Allow-Origin", o)
				c.Writer.Header().Add("Vary", "Origin")
			}
			c.Next()
		},
		cors.New(conf),
	}
}
