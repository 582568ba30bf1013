// Package config handles loading and validation of the service configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Security profiles selecting the active access policy variant.
const (
	ProfileDev  = "dev"
	ProfileProd = "prod"
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Keycloak KeycloakConfig `yaml:"keycloak"`
	CORS     CORSConfig     `yaml:"cors"`
	Frontend FrontendConfig `yaml:"frontend"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// SecurityConfig selects the active security profile.
type SecurityConfig struct {
	Profile string `yaml:"profile"`
}

// KeycloakConfig holds the identity provider configuration.
type KeycloakConfig struct {
	ServerURL string              `yaml:"serverUrl"`
	Realm     string              `yaml:"realm"`
	ClientID  string              `yaml:"clientId"`
	Admin     KeycloakAdminConfig `yaml:"admin"`
}

// KeycloakAdminConfig holds the service-account credentials for the
// Keycloak admin API.
type KeycloakAdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// IssuerURL returns the OIDC issuer URL for the configured realm.
func (k KeycloakConfig) IssuerURL() string {
	return fmt.Sprintf("%s/realms/%s", strings.TrimRight(k.ServerURL, "/"), k.Realm)
}

// JWKSURL returns the JWKS endpoint URL for the configured realm.
func (k KeycloakConfig) JWKSURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/certs"
}

// AuthURL returns the authorization endpoint URL for the configured realm.
func (k KeycloakConfig) AuthURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/auth"
}

// TokenURL returns the token endpoint URL for the configured realm.
func (k KeycloakConfig) TokenURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/token"
}

// UserInfoURL returns the userinfo endpoint URL for the configured realm.
func (k KeycloakConfig) UserInfoURL() string {
	return k.IssuerURL() + "/protocol/openid-connect/userinfo"
}

// CORSConfig holds the cross-origin resource sharing allow-lists.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins"`
	AllowedMethods   []string `yaml:"allowedMethods"`
	AllowedHeaders   []string `yaml:"allowedHeaders"`
	AllowCredentials bool     `yaml:"allowCredentials"`
}

// FrontendConfig holds redirect targets for the browser frontend.
type FrontendConfig struct {
	LogoutRedirectURL string `yaml:"logoutRedirectUrl"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Security: SecurityConfig{
			Profile: ProfileDev,
		},
		Keycloak: KeycloakConfig{
			ServerURL: "http://localhost:8081",
			Realm:     "secure-hello-realm",
			ClientID:  "secure-hello-client",
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"http://localhost:4200", "http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		},
		Frontend: FrontendConfig{
			LogoutRedirectURL: "http://localhost:4200/logout",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Security.Profile {
	case ProfileDev, ProfileProd:
	default:
		return fmt.Errorf("security.profile must be %q or %q, got %q",
			ProfileDev, ProfileProd, c.Security.Profile)
	}

	if c.Keycloak.ServerURL == "" {
		return fmt.Errorf("keycloak.serverUrl is required")
	}
	if c.Keycloak.Realm == "" {
		return fmt.Errorf("keycloak.realm is required")
	}
	if c.Keycloak.Admin.Username == "" || c.Keycloak.Admin.Password == "" {
		return fmt.Errorf("keycloak.admin credentials are required")
	}

	if c.Security.Profile == ProfileProd {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf("cors.allowedOrigins must not contain %q in the prod profile", "*")
			}
		}
	}

	return nil
}
