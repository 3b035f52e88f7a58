// Package session owns the authoritative credential record for a console
// process: the access token, the in-memory refresh token, and the role
// claims, plus the durable-storage bindings the record is persisted through.
//
// # Design
//
// [Store] is the single shared mutable resource of the authorization core.
// All mutation goes through its setters, which write through to the
// configured [Binding] before returning, so any reader observes the new
// value immediately after the setter returns. Binding write failures never
// surface to the setter's caller; the in-memory value stays authoritative
// for the lifetime of the process.
//
// # Architecture boundaries
//
// This package owns session state and its persisted encoding. Credential
// renewal, retry, and guard evaluation live elsewhere and read/write state
// exclusively through [Store] methods.
//
// # What this package must NOT do
//
//   - Perform network calls other than through a caller-supplied [Binding].
//   - Persist the refresh token. The encoder writes only {token, claims}.
//   - Import the root package or any sibling package.
package session
