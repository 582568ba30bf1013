package auth

import "strings"

// RolePrefix is prepended to every role name when it is normalized into
// an authority string.
const RolePrefix = "ROLE_"

// Authority normalizes a role name into its authority form:
// the ROLE_ prefix followed by the uppercased role name.
func Authority(role string) string {
	return RolePrefix + strings.ToUpper(role)
}

// Authorities maps the role claims of a token to authority strings.
// Realm-level roles come first in their declared order, followed by the
// roles of each client in resource_access. Client iteration follows map
// order, so the relative order across clients is unspecified. Duplicate
// role names are kept; the result is never deduplicated.
func Authorities(claims *TokenClaims) []string {
	if claims == nil {
		return nil
	}

	var authorities []string

	if claims.RealmAccess != nil {
		for _, role := range claims.RealmAccess.Roles {
			authorities = append(authorities, Authority(role))
		}
	}

	for _, access := range claims.ResourceAccess {
		for _, role := range access.Roles {
			authorities = append(authorities, Authority(role))
		}
	}

	return authorities
}
