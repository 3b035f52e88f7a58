// Package middleware exposes HTTP middleware adapters for role and sub-role
// route protection built on top of agriAuth guard evaluation.
//
// # Guards
//
//   - [Guard] — evaluates a [agriAuth.Requirement] against the session
//     snapshot on every request and routes by the resulting state.
//
// A hydrating session answers 204 with a Retry-After header (or a custom
// placeholder handler) instead of redirecting: the bootstrap has not settled
// yet and an unauthenticated redirect would bounce signed-in users to login
// on every cold start.
//
// # Architecture boundaries
//
// This package translates guard states into HTTP semantics. It does NOT make
// authorization decisions itself — all decisions are delegated to
// [agriAuth.EvaluateGuard].
//
// # What this package must NOT do
//
//   - Read or renew credentials (the pipeline owns the credential lifecycle).
//   - Mutate session state.
//   - Widen access for sessions whose claims have not resolved.
package middleware
