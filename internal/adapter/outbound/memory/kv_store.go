// Package memory provides in-memory implementations of outbound ports.
package memory

import (
	"context"
	"sync"

	"github.com/snapbook/opsconsole/internal/domain/session"
)

var _ session.Persistence = (*KVStore)(nil)

// KVStore implements session.Persistence with an in-memory map.
// Thread-safe for concurrent access. Nothing survives the process.
type KVStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewKVStore creates an empty in-memory key/value store.
func NewKVStore() *KVStore {
	return &KVStore{values: make(map[string]string)}
}

// Load returns the value stored under key.
func (s *KVStore) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Save writes all values.
func (s *KVStore) Save(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

// Remove deletes keys. Missing keys are ignored.
func (s *KVStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Len returns the number of stored keys.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
