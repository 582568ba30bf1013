package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NoChecks(t *testing.T) {
	t.Parallel()

	checker := NewChecker("1.2.3")
	response := checker.Health(context.Background())

	assert.Equal(t, StatusUp, response.Status)
	assert.Equal(t, "1.2.3", response.Version)
	assert.Empty(t, response.Components)
	assert.NotEmpty(t, response.Uptime)
}

func TestHealth_AggregatesChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checks   map[string]Check
		expected Status
	}{
		{
			name:     "all up",
			checks:   map[string]Check{"a": {Status: StatusUp}, "b": {Status: StatusUp}},
			expected: StatusUp,
		},
		{
			name:     "one down",
			checks:   map[string]Check{"a": {Status: StatusUp}, "b": {Status: StatusDown, Message: "refused"}},
			expected: StatusDown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewChecker("test")
			for name, result := range tt.checks {
				result := result
				checker.RegisterCheck(name, func(context.Context) Check { return result })
			}

			response := checker.Health(context.Background())
			assert.Equal(t, tt.expected, response.Status)
			assert.Len(t, response.Components, len(tt.checks))
		})
	}
}

func TestUnregisterCheck(t *testing.T) {
	t.Parallel()

	checker := NewChecker("test")
	checker.RegisterCheck("db", func(context.Context) Check {
		return Check{Status: StatusDown}
	})
	checker.UnregisterCheck("db")

	assert.Equal(t, StatusUp, checker.Health(context.Background()).Status)
}

func TestIdentityProviderCheck(t *testing.T) {
	t.Parallel()

	t.Run("reachable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		check := IdentityProviderCheck(srv.Client(), srv.URL)
		assert.Equal(t, StatusUp, check(context.Background()).Status)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		result := IdentityProviderCheck(srv.Client(), srv.URL)(context.Background())
		assert.Equal(t, StatusDown, result.Status)
		assert.Contains(t, result.Message, "502")
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		check := IdentityProviderCheck(nil, "http://127.0.0.1:1/realms/none")
		assert.Equal(t, StatusDown, check(context.Background()).Status)
	})
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checker := NewChecker("test")
	checker.RegisterCheck("keycloak", func(context.Context) Check {
		return Check{Status: StatusUp}
	})

	router := gin.New()
	router.GET("/actuator/health", checker.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actuator/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var response Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, StatusUp, response.Status)
	assert.Contains(t, response.Components, "keycloak")
}

func TestHandler_Down(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checker := NewChecker("test")
	checker.RegisterCheck("keycloak", func(context.Context) Check {
		return Check{Status: StatusDown, Message: "connection refused"}
	})

	router := gin.New()
	router.GET("/actuator/health", checker.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/actuator/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
