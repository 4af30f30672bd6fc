// Package cache is an in-process TTL cache with single-flight loading.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type item struct {
	value   any
	expires time.Time
	gen     uint64
}

// Store keeps values for ttl; a ttl of zero keeps them until deleted.
//
// Every Delete bumps a generation counter. A load that started before the
// delete does not write its result back, so a writer's invalidation is never
// undone by a slower concurrent reader.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]item
	gen   uint64

	group singleflight.Group
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, items: map[string]item{}}
}

func (s *Store) expired(it item) bool {
	return s.ttl > 0 && !s.now().Before(it.expires)
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.expired(it) {
		s.mu.Lock()
		if cur, still := s.items[key]; still && cur.gen == it.gen {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	s.mu.Lock()
	s.put(key, value)
	s.mu.Unlock()
}

func (s *Store) put(key string, value any) {
	s.items[key] = item{value: value, expires: s.now().Add(s.ttl), gen: s.gen}
}

func (s *Store) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.gen++
	s.mu.Unlock()
	s.group.Forget(key)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// GetOrLoad returns the cached value for key, or runs loader once for every
// concurrent caller of the same key. Errors are returned but not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errors.New("loader is required")
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.RLock()
		startGen := s.gen
		s.mu.RUnlock()

		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.gen == startGen {
			s.put(key, loaded)
		}
		s.mu.Unlock()
		return loaded, nil
	})
	return v, err
}
