// Package directory bridges user-administration requests to the
// external identity provider's admin REST API. It exposes list, create,
// and delete operations on realm users plus realm-role assignment,
// authenticated with fixed service-account credentials obtained at
// construction. Listing issues one extra role query per user, an O(n)
// round-trip pattern sized for admin-panel use.
package directory
