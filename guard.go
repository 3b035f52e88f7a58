package agriAuth

import "strings"

// GuardState defines a public type used by agriAuth APIs.
//
// GuardState instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardState uint8

const (
	// StateHydrating is an exported constant or variable used by the session core.
	StateHydrating GuardState = iota
	// StateUnauthenticated is an exported constant or variable used by the session core.
	StateUnauthenticated
	// StateUnauthorized is an exported constant or variable used by the session core.
	StateUnauthorized
	// StateAuthorized is an exported constant or variable used by the session core.
	StateAuthorized
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s GuardState) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateUnauthorized:
		return "unauthorized"
	case StateAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Requirement defines a public type used by agriAuth APIs.
//
// Requirement instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Requirement struct {
	// Role is the required role. Empty means any authenticated user with
	// resolved claims passes.
	Role string

	// SubRole narrows Role further. Empty means any sub-role passes.
	SubRole string
}

// EvaluateGuard describes the evaluateguard operation and its observable behavior.
//
// EvaluateGuard is a pure function of its inputs: it performs no I/O, reads
// no ambient state, and two calls with equal inputs always return the same
// state. Role comparison is case-insensitive. A session with a token but no
// resolved claims is Unauthorized, never Authorized: claims lag must not
// widen access.
func EvaluateGuard(loading bool, token string, claims *Claims, req Requirement) GuardState {
	if loading {
		return StateHydrating
	}
	if token == "" {
		return StateUnauthenticated
	}
	if claims == nil || claims.Role == "" {
		return StateUnauthorized
	}
	if req.Role != "" && !strings.EqualFold(claims.Role, req.Role) {
		return StateUnauthorized
	}
	if req.SubRole != "" && !strings.EqualFold(claims.SubRole, req.SubRole) {
		return StateUnauthorized
	}
	return StateAuthorized
}
