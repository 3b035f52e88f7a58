package session

// Binding adapts the persisted session record to a durable storage medium.
// Read reports ok=false when the slot does not exist; that is not an error.
//
// A binding may be read-only from the client's perspective (the reference
// deployment keeps the credential cookie server-managed); such bindings
// implement Write and Remove as no-ops.
type Binding interface {
	Read(name string) (data []byte, ok bool, err error)
	Write(name string, data []byte) error
	Remove(name string) error
}

// NoopBinding discards writes and reads nothing. It is the default binding
// for processes that keep the session in memory only.
type NoopBinding struct{}

func (NoopBinding) Read(string) ([]byte, bool, error) { return nil, false, nil }
func (NoopBinding) Write(string, []byte) error        { return nil }
func (NoopBinding) Remove(string) error               { return nil }
