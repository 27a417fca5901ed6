package services

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Keys of the per-visitor state.
const (
	CurrentUserKey = "cinemax_current_user"
	CartStorageKey = "cinemax_cart"
)

// StateStore is durable key-value state owned by one visitor. Values are
// JSON encoded. Load reports false when the key is absent and an error when
// the stored value cannot be decoded into dest.
type StateStore interface {
	Load(key string, dest any) (bool, error)
	Save(key string, value any) error
	Remove(key string) error
}

// MemoryStateStore is a StateStore backed by a map.
type MemoryStateStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{values: make(map[string]string)}
}

func (s *MemoryStateStore) Load(key string, dest any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStateStore) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = string(data)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// SetRaw stores an undecoded value, as a tampered or stale client might.
func (s *MemoryStateStore) SetRaw(key, raw string) {
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
}

// Has reports whether key is present.
func (s *MemoryStateStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}
