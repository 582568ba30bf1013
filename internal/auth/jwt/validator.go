// Package jwt verifies bearer tokens against the identity provider's
// JWKS endpoint using lestrrat-go/jwx.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/securehello/securehello/internal/auth"
	"github.com/securehello/securehello/internal/observability"
)

// DefaultClockSkew is the default tolerance applied to time-based claims.
const DefaultClockSkew = 30 * time.Second

// DefaultRefreshInterval is the minimum interval between JWKS refreshes.
const DefaultRefreshInterval = 15 * time.Minute

// Config holds configuration for the token validator.
type Config struct {
	// JWKSURL is the provider's key-set endpoint.
	JWKSURL string

	// Issuer is the expected token issuer. Empty disables the check.
	Issuer string

	// ClockSkew is the tolerance for exp/nbf validation.
	ClockSkew time.Duration

	// RefreshInterval is the minimum interval between JWKS refreshes.
	RefreshInterval time.Duration
}

// Validator verifies bearer tokens against a cached JWKS.
type Validator struct {
	config *Config
	cache  *jwk.Cache
	logger observability.Logger
}

// ValidatorOption is a functional option for the validator.
type ValidatorOption func(*Validator)

// WithValidatorLogger sets the logger for the validator.
func WithValidatorLogger(logger observability.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator creates a new validator and registers the JWKS endpoint
// with a background-refreshing key cache. The context bounds the cache's
// refresh goroutine lifetime.
func NewValidator(ctx context.Context, config *Config, opts ...ValidatorOption) (*Validator, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.JWKSURL == "" {
		return nil, errors.New("jwks url is required")
	}
	if config.ClockSkew == 0 {
		config.ClockSkew = DefaultClockSkew
	}
	if config.RefreshInterval == 0 {
		config.RefreshInterval = DefaultRefreshInterval
	}

	v := &Validator{
		config: config,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(v)
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(config.JWKSURL, jwk.WithMinRefreshInterval(config.RefreshInterval)); err != nil {
		return nil, fmt.Errorf("failed to register jwks endpoint: %w", err)
	}
	v.cache = cache

	return v, nil
}

// Verify validates a bearer token and returns its decoded claims.
// Signature, expiry, and issuer checks are delegated to jwx.
func (v *Validator) Verify(ctx context.Context, token string) (*auth.TokenClaims, error) {
	keySet, err := v.cache.Get(ctx, v.config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jwks: %w", err)
	}

	parseOpts := []jwt.ParseOption{
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.config.ClockSkew),
	}
	if v.config.Issuer != "" {
		parseOpts = append(parseOpts, jwt.WithIssuer(v.config.Issuer))
	}

	parsed, err := jwt.Parse([]byte(token), parseOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return nil, auth.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	claims := auth.ParseClaims(parsed.PrivateClaims())
	claims.Subject = parsed.Subject()

	return claims, nil
}

// Ensure Validator implements auth.TokenVerifier.
var _ auth.TokenVerifier = (*Validator)(nil)
