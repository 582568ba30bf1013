package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// hstsMaxAgeSeconds is one year, the conventional HSTS max-age.
const hstsMaxAgeSeconds = 31536000

// StrictTransportSecurity returns a middleware that annotates every
// response with an HSTS directive covering subdomains. The service does
// not perform redirect-based HTTPS enforcement itself; that is the edge
// proxy's responsibility.
func StrictTransportSecurity() gin.HandlerFunc {
	value := fmt.Sprintf("max-age=%d; includeSubDomains", hstsMaxAgeSeconds)

	return func(c *gin.Context) {
		c.Writer.Header().Set("Strict-Transport-Security", value)
		c.Next()
	}
}
