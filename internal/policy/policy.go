package policy

import (
	"strings"

	"github.com/securehello/securehello/internal/config"
)

// RequirementKind classifies what a rule demands from the caller.
type RequirementKind int

// Requirement kinds.
const (
	// KindPublic allows any caller.
	KindPublic RequirementKind = iota
	// KindAuthenticated allows any caller with a validated identity.
	KindAuthenticated
	// KindRequiresRole allows only callers holding a specific role.
	KindRequiresRole
)

// Requirement is the access requirement attached to a rule.
type Requirement struct {
	Kind RequirementKind
	Role string
}

// Public returns a requirement that allows any caller.
func Public() Requirement {
	return Requirement{Kind: KindPublic}
}

// Authenticated returns a requirement that demands a validated identity.
func Authenticated() Requirement {
	return Requirement{Kind: KindAuthenticated}
}

// RequiresRole returns a requirement that demands a specific role.
func RequiresRole(role string) Requirement {
	return Requirement{Kind: KindRequiresRole, Role: role}
}

// Rule pairs a path pattern with an access requirement. Patterns are
// either exact paths or prefix patterns ending in "/**".
type Rule struct {
	Pattern     string
	Requirement Requirement
}

// Matches reports whether the rule's pattern matches a request path.
func (r Rule) Matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// SessionMode selects how sessions are handled by a policy variant.
type SessionMode string

// Session modes.
const (
	// SessionStateless never creates a session; every request must
	// carry its own bearer credential.
	SessionStateless SessionMode = "stateless"

	// SessionIfRequired creates a session only when the authentication
	// mechanism needs one.
	SessionIfRequired SessionMode = "if-required"
)

// Policy is a named, ordered set of route rules plus the session,
// transport, and login behavior of one deployment environment. Policies
// are immutable after construction and safe for concurrent reads.
type Policy struct {
	// Name identifies the variant.
	Name string

	// Rules are evaluated in order; the first matching pattern wins.
	// Paths matching no rule fall through to an implicit terminal
	// authenticated rule.
	Rules []Rule

	// Session selects the session handling mode.
	Session SessionMode

	// StrictTransportSecurity annotates every response with an HSTS
	// directive when set.
	StrictTransportSecurity bool

	// AllowedCORSMethods overrides the configured CORS method allow-list
	// when non-nil. Nil leaves the configuration untouched.
	AllowedCORSMethods []string

	// AllowedCORSHeaders overrides the configured CORS header allow-list
	// when non-nil. Nil leaves the configuration untouched.
	AllowedCORSHeaders []string

	// LoginSuccessPath is the redirect target after interactive login.
	LoginSuccessPath string

	// LoginFailurePath is the redirect target after a failed login.
	LoginFailurePath string

	// LogoutSuccessPath is the redirect target after logout.
	LogoutSuccessPath string
}

// RestrictCORS clamps a CORS configuration to the variant's method and
// header allow-lists. The configured origin list always applies; methods
// and headers are narrowed only by variants that declare a restriction.
func (p Policy) RestrictCORS(cfg config.CORSConfig) config.CORSConfig {
	if p.AllowedCORSMethods != nil {
		cfg.AllowedMethods = p.AllowedCORSMethods
	}
	if p.AllowedCORSHeaders != nil {
		cfg.AllowedHeaders = p.AllowedCORSHeaders
	}
	return cfg
}
