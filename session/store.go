package session

import (
	"sync"
)

// Store holds the current session and is the only shared mutable resource of
// the authorization core. It is safe for concurrent use.
//
// Every setter writes through to the configured [Binding] before returning.
// Persistence is best-effort: a binding failure is reported to the optional
// persist-error hook and otherwise swallowed, so setters never fail.
type Store struct {
	mu      sync.RWMutex
	token   string
	refresh string
	claims  *Claims
	loading bool

	// generation increments on Clear. Renewal tickets that settle after a
	// logout compare generations before writing, so a late renewal cannot
	// repopulate a cleared store.
	generation uint64

	binding Binding
	slot    string

	onPersistError func(error)

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewStore creates a Store persisted through binding under the given slot
// name. The store starts in the loading state; the bootstrapper flips it
// once hydration has finished.
func NewStore(binding Binding, slot string) *Store {
	if binding == nil {
		binding = NoopBinding{}
	}
	return &Store{
		binding: binding,
		slot:    slot,
		loading: true,
		subs:    map[int]func(){},
	}
}

// OnPersistError registers a hook invoked when a write-through to the
// binding fails. Intended for audit wiring; must not block.
func (s *Store) OnPersistError(fn func(error)) {
	s.mu.Lock()
	s.onPersistError = fn
	s.mu.Unlock()
}

// Token returns the current access token, or "" when absent.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RefreshToken returns the current refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// Claims returns a copy of the current claims, or nil when unresolved.
func (s *Store) Claims() *Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.Clone()
}

// Loading reports whether bootstrap hydration is still in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Generation returns the clear-generation counter. See [Store.Clear].
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetToken replaces the access token without touching claims, then persists.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SetRefreshToken replaces the refresh token. The refresh token is never
// persisted, so no write-through happens here.
func (s *Store) SetRefreshToken(token string) {
	s.mu.Lock()
	s.refresh = token
	s.mu.Unlock()
	s.notify()
}

// SetClaims replaces the claims, then persists.
func (s *Store) SetClaims(claims *Claims) {
	s.mu.Lock()
	s.claims = claims.Clone()
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// SetLoading sets the coarse readiness flag consumed by the route guard.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

// Clear empties the token, refresh token, and claims, bumps the generation,
// and removes the persisted record best-effort. Clear is idempotent.
//
// Clearing cannot guarantee server-side invalidation of a server-managed
// cookie; the logout network call is responsible for that separately.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.refresh = ""
	s.claims = nil
	s.generation++
	if err := s.binding.Remove(s.slot); err != nil && s.onPersistError != nil {
		s.onPersistError(err)
	}
	s.mu.Unlock()
	s.notify()
}

// Hydrate loads the persisted record from the binding into the store. A
// missing slot hydrates to an empty session and is not an error. Hydrate
// does not touch the loading flag; the bootstrapper owns that transition.
func (s *Store) Hydrate() error {
	data, ok, err := s.binding.Read(s.slot)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	rec, err := Decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = rec.Token
	s.claims = rec.Claims.Clone()
	s.mu.Unlock()
	s.notify()
	return nil
}

// Subscribe registers fn to run after every store mutation. The returned
// cancel func removes the subscription. Callbacks run synchronously on the
// mutating goroutine and must be cheap.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// persistLocked writes the current {token, claims} through to the binding.
// Callers must hold s.mu.
func (s *Store) persistLocked() {
	data, err := Encode(&Record{Token: s.token, Claims: s.claims})
	if err == nil {
		err = s.binding.Write(s.slot, data)
	}
	if err != nil && s.onPersistError != nil {
		s.onPersistError(err)
	}
}
