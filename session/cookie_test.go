package session

import (
	"net/http"
	"net/url"
	"testing"
)

func TestCookieBindingReadsEncodedEnvelope(t *testing.T) {
	envelope := `{"state":{"token":"T1","claims":{"role":"farmer"}},"version":1}`
	source := CookieSource(func(name string) (string, bool) {
		if name != "agrovia-auth" {
			return "", false
		}
		return url.QueryEscape(envelope), true
	})

	binding := NewCookieBinding(source)
	data, ok, err := binding.Read("agrovia-auth")
	if err != nil || !ok {
		t.Fatalf("read: ok=%v err=%v", ok, err)
	}

	rec, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Token != "T1" || rec.Claims == nil || rec.Claims.Role != "farmer" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestCookieBindingPreservesPlusInToken(t *testing.T) {
	// A minimal writer percent-encodes only what a cookie value requires
	// and leaves '+' literal; the read must not turn it into a space.
	envelope := `{"state":{"token":"a+b"},"version":1}`
	binding := NewCookieBinding(func(string) (string, bool) {
		return url.PathEscape(envelope), true
	})

	data, ok, err := binding.Read("agrovia-auth")
	if err != nil || !ok {
		t.Fatalf("read: ok=%v err=%v", ok, err)
	}
	rec, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Token != "a+b" {
		t.Fatalf("token = %q, want a+b", rec.Token)
	}
}

func TestCookieBindingMissingSlot(t *testing.T) {
	binding := NewCookieBinding(func(string) (string, bool) { return "", false })
	if _, ok, err := binding.Read("agrovia-auth"); ok || err != nil {
		t.Fatalf("missing cookie: ok=%v err=%v", ok, err)
	}
}

func TestCookieBindingIsReadOnly(t *testing.T) {
	binding := NewCookieBinding(func(string) (string, bool) { return "x", true })
	if err := binding.Write("agrovia-auth", []byte("y")); err != nil {
		t.Fatalf("write must be a no-op, got %v", err)
	}
	if err := binding.Remove("agrovia-auth"); err != nil {
		t.Fatalf("remove must be a no-op, got %v", err)
	}
}

func TestCookieSourceFromRequest(t *testing.T) {
	r, err := http.NewRequest(http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	r.AddCookie(&http.Cookie{Name: "agrovia-auth", Value: "payload"})

	source := CookieSourceFromRequest(r)
	value, ok := source("agrovia-auth")
	if !ok || value != "payload" {
		t.Fatalf("source = %q ok=%v", value, ok)
	}
	if _, ok := source("other"); ok {
		t.Fatal("unexpected cookie hit")
	}
}
