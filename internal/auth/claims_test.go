package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaims(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		raw                map[string]interface{}
		wantRealmRoles     []string
		wantClientRoles    map[string][]string
		wantRealmAbsent    bool
		wantResourceAbsent bool
	}{
		{
			name: "realm and resource access",
			raw: map[string]interface{}{
				"realm_access": map[string]interface{}{
					"roles": []interface{}{"admin", "user"},
				},
				"resource_access": map[string]interface{}{
					"clientA": map[string]interface{}{
						"roles": []interface{}{"viewer"},
					},
				},
			},
			wantRealmRoles:  []string{"admin", "user"},
			wantClientRoles: map[string][]string{"clientA": {"viewer"}},
		},
		{
			name:               "no role claims",
			raw:                map[string]interface{}{"email": "a@b.c"},
			wantRealmAbsent:    true,
			wantResourceAbsent: true,
		},
		{
			name: "realm access without roles key",
			raw: map[string]interface{}{
				"realm_access": map[string]interface{}{"other": "x"},
			},
			wantRealmAbsent:    true,
			wantResourceAbsent: true,
		},
		{
			name: "client entry without roles key is skipped",
			raw: map[string]interface{}{
				"resource_access": map[string]interface{}{
					"clientA": map[string]interface{}{"other": "x"},
					"clientB": map[string]interface{}{
						"roles": []interface{}{"editor"},
					},
				},
			},
			wantRealmAbsent: true,
			wantClientRoles: map[string][]string{"clientB": {"editor"}},
		},
		{
			name: "malformed shapes are skipped",
			raw: map[string]interface{}{
				"realm_access":    "not a map",
				"resource_access": []interface{}{"not", "a", "map"},
			},
			wantRealmAbsent:    true,
			wantResourceAbsent: true,
		},
		{
			name: "present but empty roles",
			raw: map[string]interface{}{
				"realm_access": map[string]interface{}{
					"roles": []interface{}{},
				},
			},
			wantRealmRoles:     []string{},
			wantResourceAbsent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims := ParseClaims(tt.raw)
			require.NotNil(t, claims)

			if tt.wantRealmAbsent {
				assert.Nil(t, claims.RealmAccess)
			} else {
				require.NotNil(t, claims.RealmAccess)
				assert.Equal(t, tt.wantRealmRoles, claims.RealmAccess.Roles)
			}

			if tt.wantResourceAbsent {
				assert.Nil(t, claims.ResourceAccess)
			} else {
				require.Len(t, claims.ResourceAccess, len(tt.wantClientRoles))
				for clientID, roles := range tt.wantClientRoles {
					assert.Equal(t, roles, claims.ResourceAccess[clientID].Roles)
				}
			}
		})
	}
}

func TestParseClaims_ProfileClaims(t *testing.T) {
	t.Parallel()

	claims := ParseClaims(map[string]interface{}{
		"preferred_username": "jdoe",
		"email":              "jdoe@example.com",
		"name":               "John Doe",
	})

	assert.Equal(t, "jdoe", claims.PreferredUsername)
	assert.Equal(t, "jdoe@example.com", claims.Email)
	assert.Equal(t, "John Doe", claims.Name)
}

func TestParseClaims_Nil(t *testing.T) {
	t.Parallel()

	claims := ParseClaims(nil)
	require.NotNil(t, claims)
	assert.Nil(t, claims.RealmAccess)
	assert.Nil(t, claims.ResourceAccess)
}
