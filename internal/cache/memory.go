package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v2"
)

// Memory is an in-process cache. Values are lost on restart and aren't shared
// between instances, use Redis when running more than one.
type Memory struct {
	c *ttlcache.Cache
}

func NewMemory() *Memory {
	c := ttlcache.NewCache()
	// Reading a value must never prolong its life
	c.SkipTTLExtensionOnHit(true)

	return &Memory{c: c}
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if err := m.c.SetWithTTL(key, value, ttl); err != nil {
		return fmt.Errorf("failed to set cache key, %w", err)
	}

	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, err := m.c.Get(key)
	if err != nil {
		if errors.Is(err, ttlcache.ErrNotFound) {
			return "", ErrMiss
		}

		return "", fmt.Errorf("failed to get cache key, %w", err)
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected value type %T in cache", v)
	}

	return s, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	err := m.c.Remove(key)
	if err != nil && !errors.Is(err, ttlcache.ErrNotFound) {
		return fmt.Errorf("failed to delete cache key, %w", err)
	}

	return nil
}

func (m *Memory) Close() error {
	return m.c.Close()
}
