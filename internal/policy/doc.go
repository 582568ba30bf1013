// Package policy implements the environment-scoped access policy that
// governs which routes require which roles. Two mutually exclusive
// variants exist: a permissive development policy and a strict
// stateless production policy. Exactly one variant is selected at
// process start from configuration and remains immutable thereafter.
package policy
