// Package cache memoizes extraction results per worksheet and file.
package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/ukaji3/finreport-go/pkg/finreport/models"
)

// Entry is a cached extraction result together with the mapping set that
// produced it.
type Entry struct {
	Result *models.ResultSet
	// Shape is the number of field mappings used for the extraction.
	Shape int
	// Fingerprint is the content hash of those mappings.
	Fingerprint uint64
}

// Store is a process-wide key/value store with per-entry expiry. Expired
// entries must be reported as absent. Implementations must be safe for
// concurrent use; concurrent Sets for one key are last-writer-wins.
type Store interface {
	Get(key string) (Entry, bool)
	Set(key string, e Entry, ttl time.Duration)
}

// MemoryStore is an in-process Store. Entries expire a fixed TTL after
// they are written; reads do not extend them.
type MemoryStore struct {
	items *ttlcache.Cache[string, Entry]
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: ttlcache.New[string, Entry](
			ttlcache.WithDisableTouchOnHit[string, Entry](),
		),
	}
}

func (s *MemoryStore) Get(key string) (Entry, bool) {
	item := s.items.Get(key)
	if item == nil || item.IsExpired() {
		return Entry{}, false
	}
	return item.Value(), true
}

func (s *MemoryStore) Set(key string, e Entry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	s.items.Set(key, e, ttl)
}

// Delete removes key.
func (s *MemoryStore) Delete(key string) {
	s.items.Delete(key)
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	return s.items.Len()
}

// Run removes entries as they expire until ctx is done.
func (s *MemoryStore) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.items.Stop()
	}()
	s.items.Start()
}
