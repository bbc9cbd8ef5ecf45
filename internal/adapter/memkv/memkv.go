// Package memkv is an in-process implementation of the KVStore port. It
// backs single-node deployments that run without Redis and serves as the
// store double in tests. All operations are safe for concurrent use.
package memkv

import (
	"context"
	"sync"
	"time"

	"adpipe/internal/core/port"
)

type entry struct {
	value     []byte
	counter   int64
	hash      map[string]int64
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store is an in-memory KVStore with per-key TTLs.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

var _ port.KVStore = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// live returns the entry for key if present and unexpired, pruning it
// otherwise. Callers must hold mu.
func (s *Store) live(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if e.expired(time.Now()) {
		delete(s.entries, key)
		return nil
	}
	return e
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil || e.value == nil {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *Store) IncrWithExpiry(_ context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		e = &entry{}
		s.entries[key] = e
	}
	e.counter += delta
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	return e.counter, nil
}

func (s *Store) GetCounter(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		return 0, nil
	}
	return e.counter, nil
}

func (s *Store) HIncrWithExpiry(_ context.Context, key, field string, delta int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil {
		e = &entry{}
		s.entries[key] = e
	}
	if e.hash == nil {
		e.hash = make(map[string]int64)
	}
	e.hash[field] += delta
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	return nil
}

// HGet reads a hash field counter; used by tests to assert stat updates.
func (s *Store) HGet(key, field string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(key)
	if e == nil || e.hash == nil {
		return 0
	}
	return e.hash[field]
}
