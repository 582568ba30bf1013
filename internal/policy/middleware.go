package policy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/securehello/securehello/internal/auth"
	"github.com/securehello/securehello/internal/observability"
)

// Enforce returns a gin middleware that evaluates every request against
// the engine's policy variant. Unauthenticated callers on protected
// routes get 401, authenticated callers lacking the required role get
// 403, everyone else passes through.
func Enforce(engine *Engine, logger observability.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = observability.NopLogger()
	}

	return func(c *gin.Context) {
		identity, _ := auth.IdentityFromContext(c.Request.Context())

		switch engine.Decide(c.Request.URL.Path, c.Request.Method, identity) {
		case Allow:
			c.Next()
		case RequireAuthentication:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
		case Deny:
			logger.WithContext(c.Request.Context()).Warn("access denied",
				observability.String("path", c.Request.URL.Path),
				observability.String("subject", identity.Subject),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient privileges",
			})
		}
	}
}
