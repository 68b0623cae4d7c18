package app

import (
	"sync"

	"github.com/dkeye/livecast/internal/domain"
)

// shard is one session's lock-guarded state. A retired shard has been
// emptied and unlinked; it must never be written again.
type shard[T any] struct {
	mu      sync.Mutex
	retired bool
	val     T
}

// shards maps session ids to their own shard so that no lock spans sessions.
// Absence of an entry is the empty state.
type shards[T any] struct {
	mu    sync.RWMutex
	m     map[domain.SessionID]*shard[T]
	newFn func() T
}

func newShards[T any](newFn func() T) *shards[T] {
	return &shards[T]{m: make(map[domain.SessionID]*shard[T]), newFn: newFn}
}

// acquire returns the live shard for id, creating it if absent, with its
// lock held. created reports whether this call created the entry.
func (s *shards[T]) acquire(id domain.SessionID) (sh *shard[T], created bool) {
	for {
		sh, created = s.getOrCreate(id)
		sh.mu.Lock()
		if !sh.retired {
			return sh, created
		}
		sh.mu.Unlock()
	}
}

// peek returns the live shard for id with its lock held, or false.
func (s *shards[T]) peek(id domain.SessionID) (*shard[T], bool) {
	s.mu.RLock()
	sh, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	sh.mu.Lock()
	if sh.retired {
		sh.mu.Unlock()
		return nil, false
	}
	return sh, true
}

// release unlocks sh. When empty is true the shard is retired and unlinked.
func (s *shards[T]) release(id domain.SessionID, sh *shard[T], empty bool) {
	if empty {
		sh.retired = true
	}
	sh.mu.Unlock()
	if !empty {
		return
	}
	s.mu.Lock()
	if s.m[id] == sh {
		delete(s.m, id)
	}
	s.mu.Unlock()
}

func (s *shards[T]) getOrCreate(id domain.SessionID) (*shard[T], bool) {
	s.mu.RLock()
	sh, ok := s.m[id]
	s.mu.RUnlock()
	if ok && !sh.isRetired() {
		return sh, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh, ok = s.m[id]; ok && !sh.isRetired() {
		return sh, false
	}
	sh = &shard[T]{val: s.newFn()}
	s.m[id] = sh
	return sh, true
}

func (sh *shard[T]) isRetired() bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.retired
}

func (s *shards[T]) ids() []domain.SessionID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SessionID, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	return out
}
