package store

import (
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps artifacts in process memory with a TTL. Used as the
// fast tier in front of disk; also suffices on its own for tests and
// for runs with persistence disabled.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a memory store. A zero TTL means entries never
// expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryStore{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Get retrieves an artifact
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	if val, found := s.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Put stores an artifact
func (s *MemoryStore) Put(key string, value []byte) error {
	s.cache.Set(key, value, gocache.DefaultExpiration)
	return nil
}

// Delete removes an artifact
func (s *MemoryStore) Delete(key string) error {
	s.cache.Delete(key)
	return nil
}

// List returns all keys under a prefix, sorted
func (s *MemoryStore) List(prefix string) ([]string, error) {
	var keys []string
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
