package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	corsMethods = "GET,POST,PUT,DELETE,OPTIONS"
	corsHeaders = "Authorization,Content-Type,If-None-Match,X-Request-Id"
	// clients read these off list, show and throttled responses
	corsExposed = "ETag,Retry-After,X-Request-Id,X-RateLimit-Limit,X-RateLimit-Remaining"
	corsMaxAge  = 10 * time.Minute
)

// CORSMiddleware allows browser clients from allowedOrigins. Auth is a bearer
// header, never a cookie, so credentials are not allowed.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))

	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		if origin != "" {
			ctx.Writer.Header().Add("Vary", "Origin")

			if _, ok := allowed[origin]; ok {
				ctx.Header("Access-Control-Allow-Origin", origin)
				ctx.Header("Access-Control-Allow-Methods", corsMethods)
				ctx.Header("Access-Control-Allow-Headers", corsHeaders)
				ctx.Header("Access-Control-Expose-Headers", corsExposed)
				ctx.Header("Access-Control-Max-Age", strconv.Itoa(int(corsMaxAge.Seconds())))
			}
		}

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
