package session

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryKV keeps keys in process memory. Entries never expire.
type MemoryKV struct {
	cache *cache.Cache
}

// NewMemoryKV creates an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{cache: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := m.cache.Get(key); found {
		value, _ := x.(string)
		return value, true, nil
	}
	return "", false, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.cache.Set(key, value, cache.NoExpiration)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
