package database

import (
	"context"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

// KeyValueStore is a string store with optional per-key expiry. A ttl of
// zero keeps the key until it is deleted.
type KeyValueStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	// Take returns the value and removes the key in one step.
	Take(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}

type valkeyStore struct {
	client valkey.Client
	prefix string
}

func NewValkeyStore(client valkey.Client, prefix string) KeyValueStore {
	return &valkeyStore{client: client, prefix: prefix}
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

func (s *valkeyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(s.prefix + key).Value(value)
	if ttl > 0 {
		return s.client.Do(ctx, cmd.ExSeconds(ttlSeconds(ttl)).Build()).Error()
	}
	return s.client.Do(ctx, cmd.Build()).Error()
}

func (s *valkeyStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.prefix+key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *valkeyStore) Take(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Do(ctx, s.client.B().Getdel().Key(s.prefix+key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *valkeyStore) Delete(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.prefix+key).Build()).Error()
}

// Flush clears the whole logical database, including keys of other stores
// that share the client.
func (s *valkeyStore) Flush(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Flushdb().Build()).Error()
}

// memorySweepInterval bounds how often Set walks the store for expired keys.
const memorySweepInterval = time.Minute

type memoryItem struct {
	value   string
	expires time.Time
}

type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

// WithClock replaces the clock used for expiry.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
	}

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = now.Add(ttl)
	}
	s.items[key] = item
	return nil
}

// sweep must be called with mu held. It drops keys nobody read before they
// expired, such as abandoned sessions and unused deletion tokens.
func (s *MemoryStore) sweep(now time.Time) {
	for key, item := range s.items {
		if !item.expires.IsZero() && !now.Before(item.expires) {
			delete(s.items, key)
		}
	}
	s.nextSweep = now.Add(memorySweepInterval)
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.live(key)
	return item.value, ok, nil
}

func (s *MemoryStore) Take(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.live(key)
	delete(s.items, key)
	return item.value, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]memoryItem)
	return nil
}

// live must be called with mu held. Expired keys are evicted on access.
func (s *MemoryStore) live(key string) (memoryItem, bool) {
	item, ok := s.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !item.expires.IsZero() && !s.now().Before(item.expires) {
		delete(s.items, key)
		return memoryItem{}, false
	}
	return item, true
}
