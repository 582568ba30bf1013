// Package health provides liveness reporting for the service.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Status represents an overall or per-component health status.
type Status string

const (
	// StatusUp indicates the component is reachable and working.
	StatusUp Status = "UP"
	// StatusDown indicates the component failed its check.
	StatusDown Status = "DOWN"
)

// Check is an individual component check result.
type Check struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response is the aggregated health report.
type Response struct {
	Status     Status           `json:"status"`
	Version    string           `json:"version,omitempty"`
	Uptime     string           `json:"uptime,omitempty"`
	Components map[string]Check `json:"components,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// CheckFunc performs a single component check.
type CheckFunc func(ctx context.Context) Check

// Checker aggregates component checks into a single health report.
type Checker struct {
	version   string
	startTime time.Time
	checks    map[string]CheckFunc
	mu        sync.RWMutex
}

// NewChecker creates a health checker reporting the given version.
func NewChecker(version string) *Checker {
	return &Checker{
		version:   version,
		startTime: time.Now(),
		checks:    make(map[string]CheckFunc),
	}
}

// RegisterCheck registers a named component check.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// UnregisterCheck removes a named component check.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Health runs all registered checks and aggregates the result.
// The overall status is DOWN when any component is DOWN.
func (c *Checker) Health(ctx context.Context) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()

	response := Response{
		Status:    StatusUp,
		Version:   c.version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	}

	if len(c.checks) > 0 {
		response.Components = make(map[string]Check, len(c.checks))
	}
	for name, checkFunc := range c.checks {
		check := checkFunc(ctx)
		response.Components[name] = check
		if check.Status == StatusDown {
			response.Status = StatusDown
		}
	}

	return response
}

// IdentityProviderCheck returns a check that probes the identity
// provider's realm discovery endpoint.
func IdentityProviderCheck(client *http.Client, issuerURL string) CheckFunc {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	return func(ctx context.Context) Check {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, issuerURL, nil)
		if err != nil {
			return Check{Status: StatusDown, Message: err.Error()}
		}

		resp, err := client.Do(req)
		if err != nil {
			return Check{Status: StatusDown, Message: err.Error()}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return Check{
				Status:  StatusDown,
				Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
			}
		}
		return Check{Status: StatusUp}
	}
}
