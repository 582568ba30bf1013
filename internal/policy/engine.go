package policy

import (
	"time"

	"github.com/securehello/securehello/internal/auth"
	"github.com/securehello/securehello/internal/observability"
)

// Decision is the outcome of evaluating a request against the policy.
type Decision int

// Decisions.
const (
	// Allow lets the request reach its handler.
	Allow Decision = iota
	// Deny rejects an authenticated caller lacking the required role.
	Deny
	// RequireAuthentication challenges an unauthenticated caller.
	RequireAuthentication
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case RequireAuthentication:
		return "require_authentication"
	default:
		return "unknown"
	}
}

// Engine evaluates requests against one immutable policy variant.
// Evaluation is pure and safe for concurrent use.
type Engine struct {
	policy  Policy
	logger  observability.Logger
	metrics *Metrics
}

// EngineOption is a functional option for the engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger.
func WithEngineLogger(logger observability.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEngineMetrics sets the metrics.
func WithEngineMetrics(metrics *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// NewEngine creates an engine for the given policy variant.
func NewEngine(policy Policy, opts ...EngineOption) *Engine {
	e := &Engine{
		policy: policy,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.metrics == nil {
		e.metrics = NewMetrics("securehello")
	}

	return e
}

// Policy returns the active policy variant.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Metrics returns the engine's decision metrics.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Decide evaluates a request path against the active policy. Rules are
// walked in declaration order; the first matching pattern wins. Paths
// matching no rule fall through to the implicit terminal authenticated
// rule, so evaluation is total.
func (e *Engine) Decide(path, method string, identity *auth.Identity) Decision {
	start := time.Now()

	requirement := Authenticated()
	matched := "<terminal>"
	for _, rule := range e.policy.Rules {
		if rule.Matches(path) {
			requirement = rule.Requirement
			matched = rule.Pattern
			break
		}
	}

	decision := e.evaluate(requirement, identity)

	var authorities []string
	if identity != nil {
		authorities = identity.Authorities
	}

	e.metrics.RecordDecision(e.policy.Name, decision.String(), time.Since(start))
	e.logger.Debug("access decision",
		observability.String("path", path),
		observability.String("method", method),
		observability.String("rule", matched),
		observability.String("decision", decision.String()),
		observability.Bool("authenticated", identity != nil),
		observability.Strings("authorities", authorities),
	)

	return decision
}

// evaluate applies a single requirement to the caller's identity.
func (e *Engine) evaluate(requirement Requirement, identity *auth.Identity) Decision {
	switch requirement.Kind {
	case KindPublic:
		return Allow
	case KindAuthenticated:
		if identity == nil {
			return RequireAuthentication
		}
		return Allow
	case KindRequiresRole:
		if identity == nil {
			return RequireAuthentication
		}
		if identity.HasRole(requirement.Role) {
			return Allow
		}
		return Deny
	default:
		return RequireAuthentication
	}
}
