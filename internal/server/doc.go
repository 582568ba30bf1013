// Package server wires the HTTP route surface: public and
// authenticated greeting endpoints, the caller info endpoint, the
// admin user-management endpoints backed by the identity directory,
// and the interactive-login bootstrap routes. The router applies the
// full middleware chain so every request passes identity resolution
// and policy enforcement before reaching a handler.
package server
