package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingPreviewer struct{ calls map[string]int }

func (c *countingPreviewer) Preview(path string) []string {
	c.calls[path]++
	return []string{path}
}

func TestCacheComputesOncePerPath(t *testing.T) {
	gen := &countingPreviewer{calls: map[string]int{}}
	c := NewCache(gen)

	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"/a"}, c.Get("/a"))
	}
	assert.Equal(t, 1, gen.calls["/a"])

	c.Get("/b")
	c.Get("/a")
	assert.Equal(t, 2, gen.calls["/a"], "single slot: switching back recomputes")
}

func TestCachePeekAndReset(t *testing.T) {
	c := NewCache(&countingPreviewer{calls: map[string]int{}})

	_, ok := c.Peek("/a")
	assert.False(t, ok)

	c.Get("/a")
	lines, ok := c.Peek("/a")
	assert.True(t, ok)
	assert.Equal(t, []string{"/a"}, lines)

	c.Reset()
	_, ok = c.Peek("/a")
	assert.False(t, ok)
}
