package session

import (
	"net/http"
	"net/url"
)

// CookieSource yields the current raw value of a named cookie.
type CookieSource func(name string) (value string, ok bool)

// CookieBinding reads the persisted session record from a server-managed
// cookie. The server is the writer of record for this slot (it sets the
// cookie on login and refresh responses), so Write and Remove are no-ops:
// clearing the in-memory store cannot revoke the server-side cookie, which
// the logout network call must do separately.
type CookieBinding struct {
	source CookieSource
}

// NewCookieBinding creates a read-only binding over the given cookie source.
func NewCookieBinding(source CookieSource) *CookieBinding {
	return &CookieBinding{source: source}
}

// CookieSourceFromRequest adapts an incoming request's cookie jar into a
// [CookieSource], for server-side console processes that hydrate a session
// per request.
func CookieSourceFromRequest(r *http.Request) CookieSource {
	return func(name string) (string, bool) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", false
		}
		return c.Value, true
	}
}

func (b *CookieBinding) Read(name string) ([]byte, bool, error) {
	if b == nil || b.source == nil {
		return nil, false, nil
	}
	raw, ok := b.source(name)
	if !ok {
		return nil, false, nil
	}

	// Cookie values carrying JSON are percent-encoded by the server.
	// PathUnescape, not QueryUnescape: a literal '+' in an opaque token is
	// not a form-encoded space.
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return []byte(raw), true, nil
	}
	return []byte(decoded), true, nil
}

func (b *CookieBinding) Write(string, []byte) error { return nil }

func (b *CookieBinding) Remove(string) error { return nil }
