// Package inmem is a core.Store kept in memory. Nothing survives the process.
package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/trezcool/learnerair/core"
)

type Store struct {
	sync.RWMutex
	docs map[string][]byte
}

var _ core.Store = (*Store)(nil) // interface compliance check

func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	data, ok := s.docs[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.Lock()
	defer s.Unlock()

	s.docs[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	delete(s.docs, key)
	return nil
}

// Keys returns the keys currently stored, sorted.
func (s *Store) Keys(context.Context) ([]string, error) {
	s.RLock()
	defer s.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error { return nil }
