package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/securehello/securehello/internal/observability"
)

// bearerPrefix is the authorization scheme for bearer credentials.
const bearerPrefix = "Bearer "

// TokenVerifier verifies a bearer token and returns its claims.
// Signature verification itself is the verifier's concern; this package
// only consumes the resulting claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}

// Middleware returns a gin middleware that resolves the caller identity
// from a bearer credential. Requests without a credential pass through
// anonymously; the access policy decides later whether that is enough.
// Requests with an invalid credential are rejected immediately.
func Middleware(verifier TokenVerifier, logger observability.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = observability.NopLogger()
	}

	return func(c *gin.Context) {
		token, ok := extractBearerToken(c.Request)
		if !ok {
			c.Next()
			return
		}

		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debug("token verification failed",
				observability.String("path", c.Request.URL.Path),
				observability.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		identity := NewIdentity(claims, "Keycloak")
		ctx := ContextWithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// extractBearerToken extracts a bearer token from the Authorization header.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}
