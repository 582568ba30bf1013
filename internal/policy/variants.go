package policy

import (
	"fmt"

	"github.com/securehello/securehello/internal/config"
)

// RoleAdmin is the role gating the admin route surface.
const RoleAdmin = "ADMIN"

// DevPolicy returns the permissive development variant. Login, OAuth2
// callback, and auth bootstrap paths are public, a small set of
// user-facing API paths requires authentication, and the admin surface
// is role-gated. Sessions are created only when the authentication
// mechanism needs one. This variant must never be exposed outside a
// trusted development network.
func DevPolicy() Policy {
	return Policy{
		Name: "dev",
		Rules: []Rule{
			{Pattern: "/api/public/**", Requirement: Public()},
			{Pattern: "/actuator/health", Requirement: Public()},
			{Pattern: "/metrics", Requirement: Public()},
			{Pattern: "/login/**", Requirement: Public()},
			{Pattern: "/oauth2/**", Requirement: Public()},
			{Pattern: "/auth/**", Requirement: Public()},
			{Pattern: "/api/hello", Requirement: Authenticated()},
			{Pattern: "/api/user-info", Requirement: Authenticated()},
			{Pattern: "/api/admin/**", Requirement: RequiresRole(RoleAdmin)},
		},
		Session:           SessionIfRequired,
		LoginSuccessPath:  "/api/hello",
		LoginFailurePath:  "/login?error=true",
		LogoutSuccessPath: "/api/public/hello",
	}
}

// ProdPolicy returns the strict stateless production variant. Only the
// health and metrics paths and the public API prefix are open;
// everything else needs a bearer credential on every request. The
// responses carry an HSTS
// directive so browsers upgrade to encrypted transport; redirect-based
// enforcement is the edge proxy's responsibility. Cross-origin traffic
// is narrowed to GET and POST with Authorization and Content-Type
// headers, regardless of what the configuration allows.
func ProdPolicy() Policy {
	return Policy{
		Name: "prod",
		Rules: []Rule{
			{Pattern: "/api/public/**", Requirement: Public()},
			{Pattern: "/actuator/health", Requirement: Public()},
			{Pattern: "/metrics", Requirement: Public()},
			{Pattern: "/api/admin/**", Requirement: RequiresRole(RoleAdmin)},
		},
		Session:                 SessionStateless,
		StrictTransportSecurity: true,
		AllowedCORSMethods:      []string{"GET", "POST"},
		AllowedCORSHeaders:      []string{"Authorization", "Content-Type"},
		LoginSuccessPath:        "/api/hello",
		LoginFailurePath:        "/login?error=true",
		LogoutSuccessPath:       "/api/public/hello",
	}
}

// ForProfile returns the policy variant for a configured security
// profile. The variant is selected once at startup and never switched
// at runtime.
func ForProfile(profile string) (Policy, error) {
	switch profile {
	case config.ProfileDev:
		return DevPolicy(), nil
	case config.ProfileProd:
		return ProdPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown security profile %q", profile)
	}
}
