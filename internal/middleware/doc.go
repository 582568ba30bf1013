// Package middleware provides the HTTP middleware chain: request IDs,
// panic recovery, access logging, CORS, and transport security headers.
package middleware
