package scroller

import "github.com/charmbracelet/turbo/internal/csync"

// HeightStore keeps height caches across engine lifetimes. An engine reads
// its cache once when it is created and hands it back when it is unmounted;
// from then on the store owns it.
type HeightStore[K comparable] interface {
	Get(cacheKey string) (Heights[K], bool)
	Set(cacheKey string, heights Heights[K])
}

// MemoryStore is an in-process HeightStore. It is safe for concurrent use so
// one store can back engines living on different goroutines.
type MemoryStore[K comparable] struct {
	caches *csync.VersionedMap[string, Heights[K]]
}

// NewMemoryStore creates an empty store.
func NewMemoryStore[K comparable]() *MemoryStore[K] {
	return &MemoryStore[K]{
		caches: csync.NewVersionedMap[string, Heights[K]](),
	}
}

// Get implements HeightStore.
func (s *MemoryStore[K]) Get(cacheKey string) (Heights[K], bool) {
	return s.caches.Get(cacheKey)
}

// Set implements HeightStore.
func (s *MemoryStore[K]) Set(cacheKey string, heights Heights[K]) {
	s.caches.Set(cacheKey, heights)
}

// Delete forgets the cache stored under cacheKey.
func (s *MemoryStore[K]) Delete(cacheKey string) {
	s.caches.Del(cacheKey)
}

// Len returns the number of stored caches.
func (s *MemoryStore[K]) Len() int {
	return s.caches.Len()
}

// Version changes every time a cache is stored or deleted.
func (s *MemoryStore[K]) Version() uint64 {
	return s.caches.Version()
}
