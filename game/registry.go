package game

import (
	"math/rand"
	"sync"
	"time"
)

const (
	codeLength      = 6
	codeAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxCodeAttempts = 1000
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

// Registry is the single authority for which games are live in this
// process. Sessions on different codes stay independent: the registry
// lock only guards the map, each session carries its own lock, and
// nothing holds the map lock across a store round-trip.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

func (r *Registry) generateCodeLocked() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := randomCode()
		if _, taken := r.sessions[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

// CreateSession reserves a fresh code and returns the new session
// already locked, so the caller can finish the durable create before
// any join on the same code observes it. On a failed durable create
// the caller must mark the session evicted, Remove the code and then
// Unlock, in that order, so waiters blocked on the session lock see
// the eviction.
func (r *Registry) CreateSession() (string, *Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, err := r.generateCodeLocked()
	if err != nil {
		return "", nil, err
	}
	s := NewSession(code, 0)
	s.Lock()
	r.sessions[code] = s
	return code, s, nil
}

func (r *Registry) Get(code string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[code]
	return s, ok
}

// GetOrRebuild returns the live session for a code. If the code is
// absent it installs a locked placeholder, releases the map lock, and
// has rebuild fill the placeholder from the durable record — the
// store round-trip stalls only callers of this code, never the map.
// On rebuild failure the placeholder is evicted and removed, and
// waiters holding its pointer observe the eviction under its lock.
func (r *Registry) GetOrRebuild(code string, rebuild func(s *Session) error) (*Session, error) {
	r.mu.Lock()
	if s, ok := r.sessions[code]; ok {
		r.mu.Unlock()
		return s, nil
	}
	s := NewSession(code, 0)
	s.Lock()
	r.sessions[code] = s
	r.mu.Unlock()

	if err := rebuild(s); err != nil {
		s.evicted = true
		r.Remove(code)
		s.Unlock()
		return nil, err
	}
	s.Unlock()
	return s, nil
}

func (r *Registry) Upsert(code string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[code] = s
}

func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, code)
}

// All snapshots the live sessions, for diagnostics only.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
