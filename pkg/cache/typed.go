package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Typed is a view of a Store that keeps JSON-encoded values of one type
// under a shared key prefix, so several users can share a directory.
type Typed[T any] struct {
	store  *Store
	prefix string
}

// NewTyped returns a view of s whose keys are prefixed with prefix.
func NewTyped[T any](s *Store, prefix string) *Typed[T] {
	return &Typed[T]{store: s, prefix: prefix}
}

// Get reports false when key is missing, expired or holds something that is
// not a T.
func (t *Typed[T]) Get(key string) (T, bool) {
	var v T
	data, ok := t.store.Get(t.prefix + key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		t.store.logger.Debug("cache: dropping undecodable entry", "key", t.prefix+key, "error", err)
		var zero T
		return zero, false
	}
	return v, true
}

// Put stores v with the store's default TTL.
func (t *Typed[T]) Put(key string, v T) error {
	return t.PutWithTTL(key, v, t.store.cfg.DefaultTTL)
}

// PutWithTTL stores v for ttl. Zero means no expiry.
func (t *Typed[T]) PutWithTTL(key string, v T, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encode %s%s: %w", t.prefix, key, err)
	}
	return t.store.PutWithTTL(t.prefix+key, data, ttl)
}
