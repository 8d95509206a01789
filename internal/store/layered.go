package store

import "time"

// LayeredStore fronts a disk store with a memory tier. Reads check
// memory first and promote disk hits; writes and deletes go to both.
// Listing always reflects disk, the durable source of truth.
type LayeredStore struct {
	memory Store
	disk   Store
}

// NewLayeredStore creates a layered store rooted at diskDir
func NewLayeredStore(memoryTTL time.Duration, diskDir string) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(memoryTTL),
		disk:   NewDiskStore(diskDir),
	}
}

// Get retrieves an artifact (memory first, then disk)
func (s *LayeredStore) Get(key string) ([]byte, bool) {
	if val, found := s.memory.Get(key); found {
		return val, true
	}
	if val, found := s.disk.Get(key); found {
		_ = s.memory.Put(key, val)
		return val, true
	}
	return nil, false
}

// Put stores an artifact in both tiers. Disk is written first; a disk
// failure must not leave memory claiming the artifact exists.
func (s *LayeredStore) Put(key string, value []byte) error {
	if err := s.disk.Put(key, value); err != nil {
		return err
	}
	return s.memory.Put(key, value)
}

// Delete removes an artifact from both tiers
func (s *LayeredStore) Delete(key string) error {
	_ = s.memory.Delete(key)
	return s.disk.Delete(key)
}

// List returns all disk keys under a prefix
func (s *LayeredStore) List(prefix string) ([]string, error) {
	return s.disk.List(prefix)
}
