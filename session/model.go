package session

// Claims carries the role assertions attached to a session. SubRole is empty
// when the deployment does not use sub-roles for the user's role.
type Claims struct {
	Role    string
	SubRole string
}

// Clone returns a copy of c, or nil when c is nil.
func (c *Claims) Clone() *Claims {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// Record is the subset of session state written to durable storage.
// The refresh token is deliberately excluded: it lives in process memory
// only, and durably on a server-managed channel.
type Record struct {
	Token  string
	Claims *Claims
}
