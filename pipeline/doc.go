// Package pipeline wraps outbound console requests with the credential
// lifecycle: bearer attachment and caller-identity injection on the way
// out, 401 detection, single-flight renewal, and a one-shot replay on the
// way back.
//
// # Design
//
// [Transport] is an [net/http.RoundTripper]. Regardless of how many
// concurrent requests discover an expired token, exactly one renewal call
// is made; every other faulting request attaches to the same ticket and
// retries with its outcome. A request is retried at most once, enforced by
// an explicit per-call state machine rather than a mutable flag.
//
// # What this package must NOT do
//
//   - Mutate session state directly. All writes go through the store's
//     setters; renewal outcomes are the only writes this package triggers.
//   - Renew on transport errors. Only an HTTP 401 enters the renewal branch.
//   - Retry a request whose body cannot be replayed.
package pipeline
