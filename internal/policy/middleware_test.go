package policy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/securehello/securehello/internal/auth"
	"github.com/securehello/securehello/internal/observability"
)

func serveWithIdentity(t *testing.T, engine *Engine, path string, identity *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	if identity != nil {
		router.Use(func(c *gin.Context) {
			ctx := auth.ContextWithIdentity(c.Request.Context(), identity)
			c.Request = c.Request.WithContext(ctx)
		})
	}
	router.Use(Enforce(engine, observability.NopLogger()))
	router.GET(path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestEnforce_PublicPath(t *testing.T) {
	rec := serveWithIdentity(t, newDevEngine(), "/api/public/hello", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEnforce_Unauthenticated(t *testing.T) {
	rec := serveWithIdentity(t, newDevEngine(), "/api/hello", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEnforce_MissingRole(t *testing.T) {
	rec := serveWithIdentity(t, newDevEngine(), "/api/admin/users", userIdentity())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEnforce_AdminRole(t *testing.T) {
	rec := serveWithIdentity(t, newDevEngine(), "/api/admin/users", adminIdentity())
	assert.Equal(t, http.StatusOK, rec.Code)
}
