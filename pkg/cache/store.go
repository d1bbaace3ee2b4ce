// Package cache keeps catalog responses and downloaded thumbnails on disk so
// the game list can be shown without a network round trip while an entry is
// fresh.
package cache

import (
	"container/list"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const entrySuffix = ".entry"

// StoreConfig holds configuration for a Store.
type StoreConfig struct {
	// Dir is where entry files live. It is created if missing.
	Dir string

	// MaxSizeMB bounds the total payload size. Default: 10.
	MaxSizeMB int

	// DefaultTTL applies to Put. Zero means entries never expire.
	DefaultTTL time.Duration

	Logger *slog.Logger
}

// Stats is a snapshot of store counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64
	Entries   int
}

// envelope is the on-disk format: one JSON file per key.
type envelope struct {
	Key      string    `json:"key"`
	StoredAt time.Time `json:"stored_at"`
	TTL      int64     `json:"ttl_ns"`
	Data     []byte    `json:"data"`
}

func (e envelope) expired(now time.Time) bool {
	return e.TTL > 0 && now.Sub(e.StoredAt) > time.Duration(e.TTL)
}

// indexEntry is the value held in each LRU element.
type indexEntry struct {
	hash      string
	size      int64
	expiresAt time.Time // zero = never
}

// Store is a disk-backed key/value cache with TTL expiry and LRU eviction by
// total size. Writes go through a temp file and rename, so readers never see
// a partial entry.
type Store struct {
	cfg    StoreConfig
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	lru       *list.List               // front = most recently used
	index     map[string]*list.Element // hash -> element
	size      int64
	hits      int64
	misses    int64
	evictions int64
}

// NewStore opens (or creates) a store in cfg.Dir and indexes the entries
// already there, dropping expired or unreadable files.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("cache: directory is required")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.DefaultTTL < 0 {
		cfg.DefaultTTL = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory %s: %w", cfg.Dir, err)
	}

	s := &Store{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		lru:    list.New(),
		index:  make(map[string]*list.Element),
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("cache: scan directory: %w", err)
	}
	return s, nil
}

// Get returns the payload stored under key. Expired entries are removed and
// reported as a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	h := hashKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.index[h]
	if !ok {
		s.misses++
		return nil, false
	}

	env, err := s.read(h)
	if err != nil || env.Key != key || env.expired(s.now()) {
		s.removeLocked(elem)
		s.misses++
		return nil, false
	}

	s.lru.MoveToFront(elem)
	s.hits++
	return env.Data, true
}

// Put stores value under key with the default TTL.
func (s *Store) Put(key string, value []byte) error {
	return s.PutWithTTL(key, value, s.cfg.DefaultTTL)
}

// PutWithTTL stores value under key. A ttl of zero never expires.
func (s *Store) PutWithTTL(key string, value []byte, ttl time.Duration) error {
	h := hashKey(key)
	now := s.now()

	env := envelope{Key: key, StoredAt: now, TTL: int64(ttl), Data: value}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("cache: encode entry %q: %w", key, err)
	}
	if err := atomicWrite(s.path(h), raw, s.cfg.Dir); err != nil {
		return fmt.Errorf("cache: write entry %q: %w", key, err)
	}

	entry := &indexEntry{hash: h, size: int64(len(value))}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.index[h]; ok {
		s.size -= elem.Value.(*indexEntry).size
		elem.Value = entry
		s.lru.MoveToFront(elem)
	} else {
		s.index[h] = s.lru.PushFront(entry)
	}
	s.size += entry.size
	s.evictLocked()
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.index[hashKey(key)]; ok {
		s.removeLocked(elem)
	}
	return nil
}

// Prune removes every expired entry and returns how many were dropped.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for elem := s.lru.Back(); elem != nil; {
		prev := elem.Prev()
		e := elem.Value.(*indexEntry)
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			s.removeLocked(elem)
			s.evictions++
			n++
		}
		elem = prev
	}
	if n > 0 {
		s.logger.Debug("cache pruned", "removed", n)
	}
	return n
}

// Stats returns a snapshot of the counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Size:      s.size,
		Entries:   s.lru.Len(),
	}
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.cfg.Dir, hash+entrySuffix)
}

func (s *Store) read(hash string) (envelope, error) {
	var env envelope
	raw, err := os.ReadFile(s.path(hash))
	if err != nil {
		return env, err
	}
	err = json.Unmarshal(raw, &env)
	return env, err
}

// removeLocked drops an entry from the index and disk. Caller holds s.mu.
func (s *Store) removeLocked(elem *list.Element) {
	e := elem.Value.(*indexEntry)
	s.size -= e.size
	s.lru.Remove(elem)
	delete(s.index, e.hash)
	_ = os.Remove(s.path(e.hash))
}

// evictLocked drops least recently used entries until the payload total fits.
// Caller holds s.mu.
func (s *Store) evictLocked() {
	limit := int64(s.cfg.MaxSizeMB) * 1024 * 1024
	for s.size > limit && s.lru.Len() > 1 {
		s.removeLocked(s.lru.Back())
		s.evictions++
	}
}

func (s *Store) load() error {
	dirents, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return err
	}

	now := s.now()
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() {
			continue
		}
		if strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.cfg.Dir, name))
			continue
		}
		if !strings.HasSuffix(name, entrySuffix) {
			continue
		}

		h := strings.TrimSuffix(name, entrySuffix)
		env, err := s.read(h)
		if err != nil || env.expired(now) {
			_ = os.Remove(s.path(h))
			continue
		}

		entry := &indexEntry{hash: h, size: int64(len(env.Data))}
		if env.TTL > 0 {
			entry.expiresAt = env.StoredAt.Add(time.Duration(env.TTL))
		}
		s.index[h] = s.lru.PushBack(entry)
		s.size += entry.size
	}
	s.evictLocked()
	return nil
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	success = true
	return nil
}
