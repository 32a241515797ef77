package fscache

import (
	"os"
	"sync"
	"time"
)

// MetaTTL is how long a metadata entry is trusted before it is purged.
const MetaTTL = 5 * time.Second

// Kind classifies a filesystem path.
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "unknown"
	}
}

type metaEntry struct {
	kind      Kind
	size      int64
	fetchedAt time.Time
}

// MetaCache is a time-bounded cache of per-path metadata. Entries are purged
// lazily on access, so the map only grows between calls.
type MetaCache struct {
	mu      sync.Mutex
	entries map[string]metaEntry
	ttl     time.Duration
	now     func() time.Time
	stat    func(string) (os.FileInfo, error)
}

// MetaOption configures a MetaCache.
type MetaOption func(*MetaCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MetaOption {
	return func(c *MetaCache) { c.now = now }
}

// WithStat replaces os.Stat.
func WithStat(stat func(string) (os.FileInfo, error)) MetaOption {
	return func(c *MetaCache) { c.stat = stat }
}

// NewMetaCache creates a metadata cache with the default 5s TTL.
func NewMetaCache(opts ...MetaOption) *MetaCache {
	c := &MetaCache{
		entries: make(map[string]metaEntry),
		ttl:     MetaTTL,
		now:     time.Now,
		stat:    os.Stat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns whether path is a file or directory. Any stat error
// yields KindUnknown.
func (c *MetaCache) Classify(path string) Kind {
	return c.lookup(path).kind
}

// Size returns the cached size of path, 0 when unknown.
func (c *MetaCache) Size(path string) int64 {
	return c.lookup(path).size
}

// Invalidate drops the entry for path.
func (c *MetaCache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// count reports the number of entries currently held.
func (c *MetaCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MetaCache) lookup(path string) metaEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.purgeLocked(now)

	if e, ok := c.entries[path]; ok {
		return e
	}

	e := metaEntry{kind: KindUnknown, fetchedAt: now}
	if info, err := c.stat(path); err == nil {
		switch {
		case info.IsDir():
			e.kind = KindDir
		case info.Mode().IsRegular():
			e.kind = KindFile
			e.size = info.Size()
		default:
			// sockets, devices, fifos
			e.kind = KindUnknown
			e.size = info.Size()
		}
	}
	c.entries[path] = e
	return e
}

func (c *MetaCache) purgeLocked(now time.Time) {
	for path, e := range c.entries {
		if now.Sub(e.fetchedAt) > c.ttl {
			delete(c.entries, path)
		}
	}
}
