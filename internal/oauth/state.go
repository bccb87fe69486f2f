package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// StateStore issues and verifies the CSRF state tokens that bind an OAuth
// authorize redirect to its callback. Tokens are provider-scoped,
// single-use and expire after the configured TTL. Any verification other
// than "token unknown" consumes the token, so a replayed callback fails
// even when the first attempt was rejected.
type StateStore interface {
	// Issue mints a token bound to the provider.
	Issue(ctx context.Context, provider string) (string, error)
	// Verify consumes the token and reports whether it was issued for
	// this provider and has not expired.
	Verify(ctx context.Context, provider, token string) (bool, error)
}

// newStateToken returns 32 bytes of CSPRNG output in URL-safe base64,
// suitable for a query parameter without further escaping.
func newStateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type memoryState struct {
	provider string
	expires  time.Time
}

// MemoryStateStore keeps pending states in process memory. It is the
// fallback when no Redis client is configured; states then do not survive a
// restart and are not shared between replicas.
type MemoryStateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]memoryState
}

// NewMemoryStateStore builds an in-process store with the given TTL.
func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		ttl:    ttl,
		states: make(map[string]memoryState),
	}
}

// Issue mints a token and records it with its deadline. Expired leftovers
// are swept here so the map cannot grow without bound.
func (s *MemoryStateStore) Issue(_ context.Context, provider string) (string, error) {
	token, err := newStateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	s.mu.Lock()
	for t, st := range s.states {
		if now.After(st.expires) {
			delete(s.states, t)
		}
	}
	s.states[token] = memoryState{provider: provider, expires: now.Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Verify consumes the token and checks provider and deadline.
func (s *MemoryStateStore) Verify(_ context.Context, provider, token string) (bool, error) {
	s.mu.Lock()
	st, ok := s.states[token]
	if ok {
		delete(s.states, token)
	}
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return st.provider == provider && time.Now().Before(st.expires), nil
}
