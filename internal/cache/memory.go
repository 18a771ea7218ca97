package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

const defaultMemoryCapacity = 128

// MemoryStore is a process-local Store with per-entry expiry and a bounded
// number of keys. All access is serialised by a mutex so concurrent readers
// never observe a half-written entry. The clock is injectable for tests.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	capacity int
	now      func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
	storedAt  time.Time
}

// MemoryOption customises a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source, used by tests to control expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCapacity bounds the number of retained keys. When full, the oldest
// entry is evicted to make room.
func WithCapacity(capacity int) MemoryOption {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	store := &MemoryStore{
		entries:  make(map[string]memoryEntry),
		capacity: defaultMemoryCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Get returns the live value for key. Entries past their expiry are treated
// as absent and removed.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, errors.New("cache: memory store not initialised")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.expired(entry) {
		delete(s.entries, key)
		return nil, false, nil
	}

	// Copy so callers cannot mutate the cached bytes.
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

// Set stores value under key for ttl. A non-positive ttl stores the entry
// without expiry.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil {
		return errors.New("cache: memory store not initialised")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictOldest()
	}

	entry := memoryEntry{
		value:    append([]byte(nil), value...),
		storedAt: now,
	}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

// Delete removes keys from the store.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	if s == nil {
		return errors.New("cache: memory store not initialised")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// IncrementWithTTL atomically increments a counter for the supplied key,
// starting a fresh window when the previous one has elapsed.
func (s *MemoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if s == nil {
		return 0, 0, errors.New("cache: memory store not initialised")
	}
	if window <= 0 {
		window = time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		entry = memoryEntry{
			value:     []byte("1"),
			expiresAt: now.Add(window),
			storedAt:  now,
		}
		s.entries[key] = entry
		return 1, window, nil
	}

	count, _ := strconv.ParseInt(string(entry.value), 10, 64)
	count++
	entry.value = []byte(strconv.FormatInt(count, 10))
	s.entries[key] = entry
	return count, entry.expiresAt.Sub(now), nil
}

// Len reports the number of retained keys, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)
}

func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range s.entries {
		if oldestTime.IsZero() || entry.storedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.storedAt
		}
	}

	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}
