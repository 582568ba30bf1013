package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/securehello/securehello/internal/config"
)

// defaultCORSMaxAge is how long browsers may cache preflight results.
const defaultCORSMaxAge = 86400

// corsContext holds pre-computed CORS header values.
type corsContext struct {
	allowOrigins     map[string]bool
	allowAllOrigins  bool
	allowMethods     string
	allowHeaders     string
	allowAllHeaders  bool
	allowCredentials bool
	maxAge           string
}

// newCORSContext pre-computes header values from the configured allow-lists.
func newCORSContext(cfg config.CORSConfig) *corsContext {
	ctx := &corsContext{
		allowOrigins:     make(map[string]bool, len(cfg.AllowedOrigins)),
		allowMethods:     strings.Join(cfg.AllowedMethods, ", "),
		allowHeaders:     strings.Join(cfg.AllowedHeaders, ", "),
		allowCredentials: cfg.AllowCredentials,
		maxAge:           strconv.Itoa(defaultCORSMaxAge),
	}

	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			ctx.allowAllOrigins = true
			continue
		}
		ctx.allowOrigins[origin] = true
	}

	for _, header := range cfg.AllowedHeaders {
		if header == "*" {
			ctx.allowAllHeaders = true
		}
	}

	return ctx
}

// isOriginAllowed checks an Origin header against the allow-list.
func (ctx *corsContext) isOriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	return ctx.allowAllOrigins || ctx.allowOrigins[origin]
}

// CORS returns a middleware applying the configured cross-origin policy.
// Disallowed origins get no CORS headers; preflight requests from
// allowed origins are answered with 204.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	ctx := newCORSContext(cfg)

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if !ctx.isOriginAllowed(origin) {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		header := c.Writer.Header()
		if ctx.allowAllOrigins && !ctx.allowCredentials {
			header.Set("Access-Control-Allow-Origin", "*")
		} else {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Add("Vary", "Origin")
		}
		if ctx.allowCredentials {
			header.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			header.Set("Access-Control-Allow-Methods", ctx.allowMethods)
			if ctx.allowAllHeaders {
				if requested := c.Request.Header.Get("Access-Control-Request-Headers"); requested != "" {
					header.Set("Access-Control-Allow-Headers", requested)
				}
			} else {
				header.Set("Access-Control-Allow-Headers", ctx.allowHeaders)
			}
			header.Set("Access-Control-Max-Age", ctx.maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
