// Package audit provides the structured event stream for session-lifecycle
// observability: hydration, renewal outcomes, forced redirects, best-effort
// logout failures, and storage write failures.
//
// Events are forwarded asynchronously through a [Dispatcher] to a
// caller-supplied [Sink]. Emission never blocks the request path: a full
// buffer drops the event and counts the drop.
package audit
