package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNoCacheStore = errors.New("cache store is not configured")

// CacheBuilder stores JSON-encoded values in a KeyValueStore.
//
//	database.NewCacheBuilder(store, id).WithStruct(v).WithTTL(time.Hour).Set()
type CacheBuilder struct {
	store KeyValueStore
	key   string
	value any
	ttl   time.Duration
	ctx   context.Context
}

func NewCacheBuilder(store KeyValueStore, key string) *CacheBuilder {
	return &CacheBuilder{
		store: store,
		key:   key,
		ctx:   context.Background(),
	}
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		b.ctx = ctx
	}
	return b
}

func (b *CacheBuilder) Set() error {
	if b.store == nil {
		return ErrNoCacheStore
	}

	data, err := json.Marshal(b.value)
	if err != nil {
		return err
	}
	return b.store.Set(b.ctx, b.key, string(data), b.ttl)
}

// Get decodes the cached value into dest. found is false on a miss.
func (b *CacheBuilder) Get(dest any) (bool, error) {
	if b.store == nil {
		return false, ErrNoCacheStore
	}

	raw, found, err := b.store.Get(b.ctx, b.key)
	if err != nil || !found {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.store == nil {
		return ErrNoCacheStore
	}
	return b.store.Delete(b.ctx, b.key)
}
