package auth

// Claim names used by the Keycloak token mapping.
const (
	ClaimRealmAccess       = "realm_access"
	ClaimResourceAccess    = "resource_access"
	ClaimPreferredUsername = "preferred_username"
	ClaimEmail             = "email"
	ClaimName              = "name"
	ClaimPicture           = "picture"
)

// TokenClaims holds the decoded claims of a verified access token.
// Role claims are modelled explicitly: RealmAccess carries the realm-level
// roles, ResourceAccess carries per-client roles keyed by client ID. A nil
// RealmAccess or ResourceAccess means the claim was absent from the token.
type TokenClaims struct {
	Subject           string
	PreferredUsername string
	Email             string
	Name              string
	Picture           string

	RealmAccess    *RealmAccess
	ResourceAccess map[string]ClientAccess

	// Raw holds all non-standard claims as decoded from the token.
	Raw map[string]interface{}
}

// RealmAccess holds the realm-level role claim.
type RealmAccess struct {
	Roles []string
}

// ClientAccess holds the role claim for a single client.
type ClientAccess struct {
	Roles []string
}

// ParseClaims decodes a raw claim map into TokenClaims. Claims that are
// missing or have an unexpected shape are skipped, never an error.
func ParseClaims(raw map[string]interface{}) *TokenClaims {
	claims := &TokenClaims{Raw: raw}
	if raw == nil {
		return claims
	}

	claims.PreferredUsername = stringClaim(raw, ClaimPreferredUsername)
	claims.Email = stringClaim(raw, ClaimEmail)
	claims.Name = stringClaim(raw, ClaimName)
	claims.Picture = stringClaim(raw, ClaimPicture)

	if access, ok := raw[ClaimRealmAccess].(map[string]interface{}); ok {
		if roles, ok := rolesOf(access); ok {
			claims.RealmAccess = &RealmAccess{Roles: roles}
		}
	}

	if access, ok := raw[ClaimResourceAccess].(map[string]interface{}); ok {
		resourceAccess := make(map[string]ClientAccess, len(access))
		for clientID, clientClaim := range access {
			clientMap, ok := clientClaim.(map[string]interface{})
			if !ok {
				continue
			}
			if roles, ok := rolesOf(clientMap); ok {
				resourceAccess[clientID] = ClientAccess{Roles: roles}
			}
		}
		if len(resourceAccess) > 0 {
			claims.ResourceAccess = resourceAccess
		}
	}

	return claims
}

// rolesOf extracts the "roles" entry from an access claim mapping.
func rolesOf(access map[string]interface{}) ([]string, bool) {
	value, ok := access["roles"]
	if !ok {
		return nil, false
	}

	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles, true
	default:
		return nil, false
	}
}

// stringClaim returns a claim value as a string, or "" if absent.
func stringClaim(raw map[string]interface{}, name string) string {
	if s, ok := raw[name].(string); ok {
		return s
	}
	return ""
}
