package store

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/procdef/service/dao"
	"github.com/viant/procdef/service/dao/criteria"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps entities of type *T mapped by a comparable key K.
// The key is obtained from the supplied keySelector function.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	matcher     func(*T, []*dao.Parameter) bool
	clone       func(*T) *T
	less        func(a, b *T) bool
}

// MemoryOption customises a MemoryStore
type MemoryOption[K comparable, T any] func(*MemoryStore[K, T])

// WithMatcher filters List results
func WithMatcher[K comparable, T any](matcher func(*T, []*dao.Parameter) bool) MemoryOption[K, T] {
	return func(s *MemoryStore[K, T]) {
		s.matcher = matcher
	}
}

// WithClone copies entities on the way in and out so callers never share state with the store
func WithClone[K comparable, T any](clone func(*T) *T) MemoryOption[K, T] {
	return func(s *MemoryStore[K, T]) {
		s.clone = clone
	}
}

// WithOrder sorts List results
func WithOrder[K comparable, T any](less func(a, b *T) bool) MemoryOption[K, T] {
	return func(s *MemoryStore[K, T]) {
		s.less = less
	}
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, opts ...MemoryOption[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// NewMemory creates an in-memory record store
func NewMemory() *MemoryStore[string, dao.Record] {
	return NewMemoryStore[string, dao.Record](
		func(r *dao.Record) string { return r.Key() },
		WithMatcher[string, dao.Record](criteria.Matches),
		WithClone[string, dao.Record](cloneRecord),
		WithOrder[string, dao.Record](func(a, b *dao.Record) bool { return a.Key() < b.Key() }),
	)
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = s.copy(v)
	return nil
}

// Load returns a record by key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.copy(v), nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns stored records matching parameters.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if s.matcher != nil && !s.matcher(v, parameters) {
			continue
		}
		out = append(out, s.copy(v))
	}
	if s.less != nil {
		sort.Slice(out, func(i, j int) bool { return s.less(out[i], out[j]) })
	}
	return out, nil
}

func (s *MemoryStore[K, T]) copy(v *T) *T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}

func cloneRecord(r *dao.Record) *dao.Record {
	ret := *r
	if r.Version != nil {
		version := *r.Version
		ret.Version = &version
	}
	ret.Data = append([]byte(nil), r.Data...)
	return &ret
}
