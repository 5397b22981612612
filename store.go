/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"sync"
)

// Store is the opaque shared key-value service every client coordinates
// through. It offers no transactions, no versioning and no locking: a Set
// fully replaces whatever value was stored before it, and two concurrent
// writers are resolved by whichever Set lands last.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// memoryStore backs the built-in shared-state server and the tests.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		values: make(map[string]string),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]

	return value, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return nil
}
