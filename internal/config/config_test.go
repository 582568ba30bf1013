package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Keycloak.Admin.Username = "admin"
	cfg.Keycloak.Admin.Password = "admin"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid dev config",
			mutate: func(c *Config) {},
		},
		{
			name: "valid prod config",
			mutate: func(c *Config) {
				c.Security.Profile = ProfileProd
				c.CORS.AllowedOrigins = []string{"https://yourdomain.com"}
			},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "unknown profile",
			mutate:  func(c *Config) { c.Security.Profile = "staging" },
			wantErr: "security.profile",
		},
		{
			name:    "missing keycloak url",
			mutate:  func(c *Config) { c.Keycloak.ServerURL = "" },
			wantErr: "keycloak.serverUrl",
		},
		{
			name:    "missing realm",
			mutate:  func(c *Config) { c.Keycloak.Realm = "" },
			wantErr: "keycloak.realm",
		},
		{
			name:    "missing admin credentials",
			mutate:  func(c *Config) { c.Keycloak.Admin.Password = "" },
			wantErr: "keycloak.admin",
		},
		{
			name: "wildcard origin in prod",
			mutate: func(c *Config) {
				c.Security.Profile = ProfileProd
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: "cors.allowedOrigins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestKeycloakConfig_URLs(t *testing.T) {
	t.Parallel()

	kc := KeycloakConfig{
		ServerURL: "http://localhost:8081/",
		Realm:     "secure-hello-realm",
	}

	assert.Equal(t, "http://localhost:8081/realms/secure-hello-realm", kc.IssuerURL())
	assert.Equal(t, "http://localhost:8081/realms/secure-hello-realm/protocol/openid-connect/certs", kc.JWKSURL())
	assert.Equal(t, "http://localhost:8081/realms/secure-hello-realm/protocol/openid-connect/auth", kc.AuthURL())
	assert.Equal(t, "http://localhost:8081/realms/secure-hello-realm/protocol/openid-connect/token", kc.TokenURL())
	assert.Equal(t, "http://localhost:8081/realms/secure-hello-realm/protocol/openid-connect/userinfo", kc.UserInfoURL())
}

func TestLoadFromReader(t *testing.T) {
	yaml := `
server:
  port: 9090
security:
  profile: prod
keycloak:
  serverUrl: https://id.example.com
  realm: hello
  admin:
    username: ${SH_TEST_ADMIN_USER:-svc-admin}
    password: ${SH_TEST_ADMIN_PASS:-secret}
cors:
  allowedOrigins:
    - https://app.example.com
  allowedMethods: [GET, POST]
  allowedHeaders: [Authorization, Content-Type]
  allowCredentials: true
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, ProfileProd, cfg.Security.Profile)
	assert.Equal(t, "https://id.example.com", cfg.Keycloak.ServerURL)
	assert.Equal(t, "svc-admin", cfg.Keycloak.Admin.Username)
	assert.Equal(t, "secret", cfg.Keycloak.Admin.Password)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromReader_EnvOverride(t *testing.T) {
	t.Setenv("SH_TEST_ADMIN_USER", "override-admin")

	yaml := `
keycloak:
  admin:
    username: ${SH_TEST_ADMIN_USER:-svc-admin}
    password: ${SH_TEST_ADMIN_PASS:-secret}
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	require.NoError(t, err)
	assert.Equal(t, "override-admin", cfg.Keycloak.Admin.Username)
}

func TestLoadFromReader_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadFromReader(strings.NewReader("server: ["))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/securehello.yaml")
	assert.Error(t, err)
}
