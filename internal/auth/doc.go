// Package auth maps verified identity-token claims to request-scoped
// identities. It decodes the Keycloak realm_access and resource_access
// role claims, normalizes role names into ROLE_-prefixed authorities,
// and provides middleware that threads the resulting identity through
// the request context.
package auth
