package preview

// Previewer is implemented by Generator.
type Previewer interface {
	Preview(path string) []string
}

// Cache holds the preview of a single path. Asking for the same path again
// returns the stored lines without touching the disk.
type Cache struct {
	gen   Previewer
	path  string
	lines []string
	valid bool
}

func NewCache(gen Previewer) *Cache {
	return &Cache{gen: gen}
}

// Get returns the preview for path, computing it only when path differs from
// the cached one.
func (c *Cache) Get(path string) []string {
	if c.valid && c.path == path {
		return c.lines
	}
	c.path = path
	c.lines = c.gen.Preview(path)
	c.valid = true
	return c.lines
}

// Peek returns the cached lines if they belong to path.
func (c *Cache) Peek(path string) ([]string, bool) {
	if c.valid && c.path == path {
		return c.lines, true
	}
	return nil, false
}

// Reset drops the cached preview so the next Get recomputes it.
func (c *Cache) Reset() {
	c.valid = false
	c.lines = nil
	c.path = ""
}
