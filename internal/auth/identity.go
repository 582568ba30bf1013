package auth

import (
	"context"
	"errors"
)

// Identity represents an authenticated caller. It is request-scoped and
// carried through the request context, never stored globally.
type Identity struct {
	// Subject is the unique identifier for the identity.
	Subject string `json:"sub"`

	// Username is the preferred username, falling back to the email.
	Username string `json:"username,omitempty"`

	// Email is the email address of the identity.
	Email string `json:"email,omitempty"`

	// Name is the display name of the identity.
	Name string `json:"name,omitempty"`

	// Picture is the avatar URL, when the provider supplies one.
	Picture string `json:"picture,omitempty"`

	// Provider names the authentication collaborator that produced
	// this identity (e.g. "Keycloak").
	Provider string `json:"provider,omitempty"`

	// Authorities is the ordered, non-deduplicated authority list
	// extracted from the token's role claims.
	Authorities []string `json:"authorities,omitempty"`

	// Claims holds the decoded token claims.
	Claims *TokenClaims `json:"-"`
}

// NewIdentity builds an Identity from verified token claims.
func NewIdentity(claims *TokenClaims, provider string) *Identity {
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Email
	}

	return &Identity{
		Subject:     claims.Subject,
		Username:    username,
		Email:       claims.Email,
		Name:        claims.Name,
		Picture:     claims.Picture,
		Provider:    provider,
		Authorities: Authorities(claims),
		Claims:      claims,
	}
}

// HasAuthority checks if the identity carries a specific authority string.
func (i *Identity) HasAuthority(authority string) bool {
	for _, a := range i.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole checks if the identity carries the authority for a role name.
func (i *Identity) HasRole(role string) bool {
	return i.HasAuthority(Authority(role))
}

// identityContextKey is the context key for the request identity.
type identityContextKey struct{}

// ContextWithIdentity adds an identity to the context.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext extracts the identity from the context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	return identity, ok && identity != nil
}

// ErrIdentityNotFound is returned when no identity is present in the context.
var ErrIdentityNotFound = errors.New("identity not found in context")

// IdentityFromContextOrError extracts the identity from the context or
// returns ErrIdentityNotFound.
func IdentityFromContextOrError(ctx context.Context) (*Identity, error) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return nil, ErrIdentityNotFound
	}
	return identity, nil
}
