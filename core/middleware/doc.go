// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - rayid: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//   - auth: Optional shared API key, bearer-token sessions
//     ({userId, email, role, isMerchant, merchantApproved}) and the three
//     authorization tiers: RequireLogin, RequireMerchant, RequireAdmin.
//
// Sessions are resolved once globally; the tier guards are attached per route.
package middleware
