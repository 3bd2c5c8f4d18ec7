package game

import (
	"regexp"
	"testing"

	"github.com/bmizerany/assert"
)

var codeFormat = regexp.MustCompile(`^[0-9A-Z]{6}$`)

func TestCreateSessionCodes(t *testing.T) {
	r := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, s, err := r.CreateSession()
		assert.Equal(t, nil, err)
		s.Unlock()
		assert.Equal(t, true, codeFormat.MatchString(code))
		assert.Equal(t, false, seen[code])
		seen[code] = true
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	code, s, err := r.CreateSession()
	assert.Equal(t, nil, err)
	s.Unlock()

	got, ok := r.Get(code)
	assert.Equal(t, true, ok)
	assert.Equal(t, s, got)

	_, ok = r.Get("NOPE00")
	assert.Equal(t, false, ok)
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	code, s, _ := r.CreateSession()
	s.Unlock()

	r.Remove(code)
	_, ok := r.Get(code)
	assert.Equal(t, false, ok)
}

func TestGetOrRebuild(t *testing.T) {
	r := NewRegistry()

	built := 0
	rebuild := func(s *Session) error {
		built++
		s.GameID = 5
		return nil
	}

	s1, err := r.GetOrRebuild("ZZ99ZZ", rebuild)
	assert.Equal(t, nil, err)
	assert.Equal(t, uint(5), s1.GameID)
	s2, err := r.GetOrRebuild("ZZ99ZZ", rebuild)
	assert.Equal(t, nil, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, 1, built)
}

func TestGetOrRebuildError(t *testing.T) {
	r := NewRegistry()
	var placeholder *Session
	_, err := r.GetOrRebuild("QQ00QQ", func(s *Session) error {
		placeholder = s
		return ErrGameNotFound
	})
	assert.Equal(t, ErrGameNotFound, err)
	_, ok := r.Get("QQ00QQ")
	assert.Equal(t, false, ok)

	// a caller that was queued on the placeholder's lock must find it
	// flagged rather than operate on a session that never existed
	placeholder.Lock()
	assert.Equal(t, true, placeholder.evicted)
	placeholder.Unlock()
}

func TestGetOrRebuildDoesNotBlockRegistry(t *testing.T) {
	r := NewRegistry()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_, err := r.GetOrRebuild("QQ00QQ", func(s *Session) error {
			close(started)
			<-release
			s.GameID = 7
			return nil
		})
		assert.Equal(t, nil, err)
		close(done)
	}()

	// other codes stay reachable while the rebuild is in flight
	<-started
	code, s, err := r.CreateSession()
	assert.Equal(t, nil, err)
	s.Unlock()
	_, ok := r.Get(code)
	assert.Equal(t, true, ok)

	close(release)
	<-done
	got, ok := r.Get("QQ00QQ")
	assert.Equal(t, true, ok)
	assert.Equal(t, uint(7), got.GameID)
}

// Mirrors the create path when the durable insert fails: the caller
// flags the session and removes it before releasing the lock, so a
// joiner already parked on the code finds nothing usable.
func TestCreateSessionFailureEviction(t *testing.T) {
	r := NewRegistry()
	code, s, err := r.CreateSession()
	assert.Equal(t, nil, err)

	seen := make(chan bool)
	go func() {
		s.Lock()
		seen <- s.evicted
		s.Unlock()
	}()

	s.evicted = true
	r.Remove(code)
	s.Unlock()

	assert.Equal(t, true, <-seen)
	_, ok := r.Get(code)
	assert.Equal(t, false, ok)
}

func TestRegistryUpsertAndAll(t *testing.T) {
	r := NewRegistry()
	s := NewSession("AA11AA", 1)
	r.Upsert("AA11AA", s)

	all := r.All()
	assert.Equal(t, 1, len(all))
	assert.Equal(t, s, all[0])
}
