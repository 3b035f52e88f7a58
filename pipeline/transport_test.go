package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agrovia/agriAuth/session"
)

// authServer accepts requests bearing the current valid token and rejects
// everything else with 401.
type authServer struct {
	srv *httptest.Server

	mu         sync.Mutex
	validToken string
	accepted   []string // Authorization headers of accepted requests
}

func newAuthServer(t *testing.T, validToken string) *authServer {
	t.Helper()

	a := &authServer{validToken: validToken}
	a.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		valid := "Bearer " + a.validToken
		got := r.Header.Get("Authorization")
		if got != valid {
			a.mu.Unlock()
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		a.accepted = append(a.accepted, got)
		a.mu.Unlock()

		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Echo-Content-Type", r.Header.Get("Content-Type"))
		_, _ = w.Write(body)
	}))
	t.Cleanup(a.srv.Close)
	return a
}

func (a *authServer) setValid(token string) {
	a.mu.Lock()
	a.validToken = token
	a.mu.Unlock()
}

func (a *authServer) acceptedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.accepted)
}

func newTestStore() *session.Store {
	store := session.NewStore(session.NoopBinding{}, "slot")
	store.SetLoading(false)
	return store
}

func TestRoundTripAttachesBearerAndRequestID(t *testing.T) {
	server := newAuthServer(t, "T1")
	store := newTestStore()
	store.SetToken("T1")

	transport := New(store, nil, Options{AttachRequestID: true})
	client := &http.Client{Transport: transport}

	resp, err := client.Get(server.srv.URL + "/api/fields")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Request.Header.Get("X-Request-ID") == "" {
		t.Fatal("request id not attached")
	}
}

func TestRoundTripNoTokenNoHeader(t *testing.T) {
	var authHeader atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	transport := New(newTestStore(), nil, Options{})
	client := &http.Client{Transport: transport}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()

	if got := authHeader.Load().(string); got != "" {
		t.Fatalf("authorization attached without a token: %q", got)
	}
}

func TestRenewalRetriesOriginalRequest(t *testing.T) {
	server := newAuthServer(t, "T2")
	store := newTestStore()
	store.SetToken("T1")
	store.SetRefreshToken("R1")

	var renewals atomic.Int64
	renew := func(ctx context.Context, refreshToken string) (*TokenPair, error) {
		renewals.Add(1)
		if refreshToken != "R1" {
			t.Errorf("refreshToken = %q", refreshToken)
		}
		return &TokenPair{AccessToken: "T2"}, nil
	}

	transport := New(store, renew, Options{})
	client := &http.Client{Transport: transport}

	resp, err := client.Post(server.srv.URL+"/api/tasks", "application/json", strings.NewReader(`{"name":"sow"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"name":"sow"`) {
		t.Fatalf("replayed body = %s", body)
	}
	if got := renewals.Load(); got != 1 {
		t.Fatalf("renewals = %d, want 1", got)
	}
	if store.Token() != "T2" {
		t.Fatalf("store token = %q, want T2", store.Token())
	}
}

func TestSingleFlightRenewal(t *testing.T) {
	server := newAuthServer(t, "T2")
	store := newTestStore()
	store.SetToken("T1")
	store.SetRefreshToken("R1")

	var renewals atomic.Int64
	renew := func(context.Context, string) (*TokenPair, error) {
		renewals.Add(1)
		time.Sleep(100 * time.Millisecond)
		return &TokenPair{AccessToken: "T2"}, nil
	}

	transport := New(store, renew, Options{})
	client := &http.Client{Transport: transport}

	const n = 3
	var wg sync.WaitGroup
	wg.Add(n)
	statuses := make(chan int, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			resp, err := client.Get(server.srv.URL + "/api/inventory")
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			_ = resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		if status != http.StatusOK {
			t.Fatalf("a concurrent caller saw status %d", status)
		}
	}
	if got := renewals.Load(); got != 1 {
		t.Fatalf("renewal endpoint called %d times, want exactly 1", got)
	}
	if got := server.acceptedCount(); got != n {
		t.Fatalf("accepted retries = %d, want %d", got, n)
	}
}

func TestNoInfiniteRetry(t *testing.T) {
	// The server rejects every token, including the renewed one.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := newTestStore()
	store.SetToken("T1")
	store.SetRefreshToken("R1")

	var renewals atomic.Int64
	renew := func(context.Context, string) (*TokenPair, error) {
		renewals.Add(1)
		return &TokenPair{AccessToken: "T2"}, nil
	}

	transport := New(store, renew, Options{})
	client := &http.Client{Transport: transport}

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 surfaced", resp.StatusCode)
	}
	if got := renewals.Load(); got != 1 {
		t.Fatalf("renewals = %d, want 1 (never looped)", got)
	}
}

func TestRenewalFailureClearsAndRedirects(t *testing.T) {
	server := newAuthServer(t, "T-none")
	store := newTestStore()
	store.SetToken("T1")
	store.SetRefreshToken("R1")

	var redirected atomic.Bool
	renew := func(context.Context, string) (*TokenPair, error) {
		return nil, errors.New("status 500")
	}

	transport := New(store, renew, Options{
		OnUnauthenticated: func() { redirected.Store(true) },
	})
	client := &http.Client{Transport: transport}

	resp, err := client.Get(server.srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want original 401", resp.StatusCode)
	}
	if !redirected.Load() {
		t.Fatal("redirect hook not invoked")
	}
	if store.Token() != "" || store.RefreshToken() != "" {
		t.Fatal("store not cleared after renewal failure")
	}

	// A second call made immediately after must not attach any credential.
	var authHeader atomic.Value
	bare := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer bare.Close()

	resp, err = client.Get(bare.URL)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	_ = resp.Body.Close()
	if got := authHeader.Load().(string); got != "" {
		t.Fatalf("cleared session still attached %q", got)
	}
}

func TestNoRefreshTokenClearsAndRedirects(t *testing.T) {
	server := newAuthServer(t, "T-none")
	store := newTestStore()
	store.SetToken("T1")

	var redirected atomic.Bool
	renew := func(context.Context, string) (*TokenPair, error) {
		t.Error("renewal endpoint must not be called without a refresh token")
		return nil, errors.New("unreachable")
	}

	transport := New(store, renew, Options{
		OnUnauthenticated: func() { redirected.Store(true) },
	})
	client := &http.Client{Transport: transport}

	resp, err := client.Get(server.srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !redirected.Load() {
		t.Fatal("redirect hook not invoked")
	}
	if store.Token() != "" {
		t.Fatal("store not cleared")
	}
}

func TestTransportErrorSkipsRenewal(t *testing.T) {
	store := newTestStore()
	store.SetToken("T1")
	store.SetRefreshToken("R1")

	renew := func(context.Context, string) (*TokenPair, error) {
		t.Error("transport errors must not trigger renewal")
		return nil, nil
	}

	transport := New(store, renew, Options{})
	client := &http.Client{Transport: transport}

	// Closed port: the dial fails before any response exists.
	_, err := client.Get("http://127.0.0.1:1")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if store.Token() != "T1" {
		t.Fatal("transport error must not touch the store")
	}
}

func TestLogoutDuringRenewalDoesNotRepopulate(t *testing.T) {
	server := newAuthServer(t, "T9")
	store := newTestStore()
	store.SetToken("T1")
	store.SetRefreshToken("R1")

	started := make(chan struct{})
	release := make(chan struct{})
	renew := func(context.Context, string) (*TokenPair, error) {
		close(started)
		<-release
		return &TokenPair{AccessToken: "T9"}, nil
	}

	transport := New(store, renew, Options{})
	client := &http.Client{Transport: transport}

	done := make(chan int, 1)
	go func() {
		resp, err := client.Get(server.srv.URL)
		if err != nil {
			t.Errorf("get: %v", err)
			done <- 0
			return
		}
		_ = resp.Body.Close()
		done <- resp.StatusCode
	}()

	<-started
	store.Clear() // user logs out while the renewal is in flight
	close(release)

	if status := <-done; status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want original 401", status)
	}
	if store.Token() != "" {
		t.Fatalf("late renewal repopulated a cleared store with %q", store.Token())
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	server := newAuthServer(t, "T2")
	store := newTestStore()
	store.SetToken("T1")
	store.SetRefreshToken("R1")

	renew := func(context.Context, string) (*TokenPair, error) {
		return &TokenPair{AccessToken: "T2", RefreshToken: "R2"}, nil
	}

	transport := New(store, renew, Options{})
	client := &http.Client{Transport: transport}

	resp, err := client.Get(server.srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()

	if store.RefreshToken() != "R2" {
		t.Fatalf("refresh token = %q, want rotated R2", store.RefreshToken())
	}
}

func TestInjectsIdentityIntoJSONBody(t *testing.T) {
	server := newAuthServer(t, "T1")
	store := newTestStore()
	store.SetToken("T1")

	transport := New(store, nil, Options{
		IdentitySource: func() (string, bool) { return "u42", true },
		IdentityField:  "created_by",
	})
	client := &http.Client{Transport: transport}

	resp, err := client.Post(server.srv.URL+"/api/tasks", "application/json", strings.NewReader(`{"name":"harvest"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("echoed body not JSON: %v", err)
	}
	if payload["created_by"] != "u42" || payload["name"] != "harvest" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestIdentityNotInjectedIntoReads(t *testing.T) {
	server := newAuthServer(t, "T1")
	store := newTestStore()
	store.SetToken("T1")

	transport := New(store, nil, Options{
		IdentitySource: func() (string, bool) { return "u42", true },
	})
	client := &http.Client{Transport: transport}

	req, _ := http.NewRequest(http.MethodGet, server.srv.URL+"/api/tasks", strings.NewReader(`{"q":"all"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if strings.Contains(string(body), "created_by") {
		t.Fatalf("identity injected into a read: %s", body)
	}
}
