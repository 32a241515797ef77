package fscache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Entry is one name within a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Listing is a sorted directory listing: directories first, then
// case-insensitive name order.
type Listing []Entry

// Names returns the bare names in listing order.
func (l Listing) Names() []string {
	names := make([]string, len(l))
	for i, e := range l {
		names[i] = e.Name
	}
	return names
}

// Index returns the position of name in the listing, or -1.
func (l Listing) Index(name string) int {
	for i, e := range l {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// AccessError reports a directory that could not be read or stat'ed.
type AccessError struct {
	Dir string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot read directory %s: %v", e.Dir, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// IsHidden reports whether name is a dotfile.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// SortListing orders entries in place: directories before files, then
// case-insensitive name, then raw name so the order is total.
func SortListing(l Listing) {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].IsDir != l[j].IsDir {
			return l[i].IsDir
		}
		li, lj := strings.ToLower(l[i].Name), strings.ToLower(l[j].Name)
		if li != lj {
			return li < lj
		}
		return l[i].Name < l[j].Name
	})
}

type listingKey struct {
	dir        string
	showHidden bool
}

type listingEntry struct {
	listing Listing
	mtime   time.Time
}

// DirCache memoizes sorted directory listings keyed by (dir, showHidden)
// and revalidates them against the directory's modification time.
type DirCache struct {
	mu      sync.Mutex
	entries map[listingKey]listingEntry
	// gens counts Forget calls per directory; a read started before a
	// Forget must not repopulate the entry.
	gens    map[string]uint64
	readDir func(string) ([]os.DirEntry, error)
	stat    func(string) (os.FileInfo, error)
}

// DirOption configures a DirCache.
type DirOption func(*DirCache)

// WithReadDir replaces os.ReadDir.
func WithReadDir(fn func(string) ([]os.DirEntry, error)) DirOption {
	return func(c *DirCache) { c.readDir = fn }
}

// WithDirStat replaces os.Stat for directory mtimes and symlink targets.
func WithDirStat(fn func(string) (os.FileInfo, error)) DirOption {
	return func(c *DirCache) { c.stat = fn }
}

// NewDirCache creates an empty directory cache.
func NewDirCache(opts ...DirOption) *DirCache {
	c := &DirCache{
		entries: make(map[listingKey]listingEntry),
		gens:    make(map[string]uint64),
		readDir: os.ReadDir,
		stat:    os.Stat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Listing returns the listing of dir. A cached listing is reused unless the
// directory's mtime is strictly newer than the one it was read at.
func (c *DirCache) Listing(dir string, showHidden bool) (Listing, error) {
	info, err := c.stat(dir)
	if err != nil {
		return nil, &AccessError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &AccessError{Dir: dir, Err: fmt.Errorf("not a directory")}
	}
	mtime := info.ModTime()
	key := listingKey{dir: dir, showHidden: showHidden}

	c.mu.Lock()
	cached, ok := c.entries[key]
	gen := c.gens[dir]
	c.mu.Unlock()
	if ok && !mtime.After(cached.mtime) {
		return cached.listing, nil
	}

	listing, err := c.read(dir, showHidden)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// a concurrent reader may have stored a newer snapshot meanwhile
	if cur, ok := c.entries[key]; c.gens[dir] == gen && (!ok || !cur.mtime.After(mtime)) {
		c.entries[key] = listingEntry{listing: listing, mtime: mtime}
	}
	c.mu.Unlock()
	return listing, nil
}

// Cached returns the stored listing of dir without touching the
// filesystem. It may be older than the directory.
func (c *DirCache) Cached(dir string, showHidden bool) (Listing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[listingKey{dir: dir, showHidden: showHidden}]
	return e.listing, ok
}

// Forget drops both hidden-file variants of dir. Reads already in flight
// for dir return their result but do not store it.
func (c *DirCache) Forget(dir string) {
	c.mu.Lock()
	delete(c.entries, listingKey{dir: dir, showHidden: false})
	delete(c.entries, listingKey{dir: dir, showHidden: true})
	c.gens[dir]++
	c.mu.Unlock()
}

func (c *DirCache) read(dir string, showHidden bool) (Listing, error) {
	dirEntries, err := c.readDir(dir)
	if err != nil {
		return nil, &AccessError{Dir: dir, Err: err}
	}

	listing := make(Listing, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !showHidden && IsHidden(name) {
			continue
		}
		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			if target, err := c.stat(filepath.Join(dir, name)); err == nil {
				isDir = target.IsDir()
			}
		}
		listing = append(listing, Entry{Name: name, IsDir: isDir})
	}
	SortListing(listing)
	return listing, nil
}
