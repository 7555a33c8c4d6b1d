package inmemkv

import (
	"context"
	"strings"
	"sync"

	"github.com/elimuhub/elimu/core"
)

// Store is the in-memory KV store used in TEST mode and throughout the test
// suites. Last write wins per key, like every other backend.
type Store struct {
	mu    sync.RWMutex
	table map[string][]byte
}

var _ core.KV = (*Store)(nil) // interface compliance check

func Open() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.table[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return clone(val), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table[key] = clone(value)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.table, key)
	return nil
}

func (s *Store) ScanPrefix(_ context.Context, prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var values [][]byte
	for key, val := range s.table {
		if strings.HasPrefix(key, prefix) {
			values = append(values, clone(val))
		}
	}
	return values, nil
}

// clone keeps callers from aliasing the table's backing arrays.
func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
