package fscache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func countingStat(n *int) func(string) (os.FileInfo, error) {
	return func(path string) (os.FileInfo, error) {
		*n++
		return os.Stat(path)
	}
}

func TestClassify(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0644))

	c := NewMetaCache()

	tests := []struct {
		name string
		path string
		want Kind
	}{
		{"file", file, KindFile},
		{"dir", tempDir, KindDir},
		{"missing", filepath.Join(tempDir, "nope"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.path))
		})
	}
	assert.Equal(t, int64(5), c.Size(file))
}

func TestClassifyServesFromCacheWithinTTL(t *testing.T) {
	tempDir := t.TempDir()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	stats := 0
	c := NewMetaCache(WithClock(clock.Now), WithStat(countingStat(&stats)))

	assert.Equal(t, KindDir, c.Classify(tempDir))
	clock.Advance(4 * time.Second)
	assert.Equal(t, KindDir, c.Classify(tempDir))
	assert.Equal(t, 1, stats)
}

func TestClassifyRefetchesAfterTTL(t *testing.T) {
	tempDir := t.TempDir()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	stats := 0
	c := NewMetaCache(WithClock(clock.Now), WithStat(countingStat(&stats)))

	c.Classify(tempDir)
	require.Equal(t, 1, stats)

	clock.Advance(MetaTTL + time.Millisecond)
	c.Classify(tempDir)
	assert.Equal(t, 2, stats, "expired entry must trigger exactly one fresh lookup")

	c.Classify(tempDir)
	assert.Equal(t, 2, stats)
}

func TestClassifyStaleWithinTTL(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "flip")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewMetaCache(WithClock(clock.Now))
	require.Equal(t, KindFile, c.Classify(path))

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	assert.Equal(t, KindFile, c.Classify(path), "type change inside the TTL window is not observed")
	clock.Advance(MetaTTL + time.Second)
	assert.Equal(t, KindDir, c.Classify(path))
}

func TestPurgeDropsExpiredEntries(t *testing.T) {
	tempDir := t.TempDir()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewMetaCache(WithClock(clock.Now))

	c.Classify(filepath.Join(tempDir, "a"))
	c.Classify(filepath.Join(tempDir, "b"))
	require.Equal(t, 2, c.count())

	clock.Advance(MetaTTL + time.Second)
	c.Classify(tempDir)
	assert.Equal(t, 1, c.count())
}

func TestInvalidate(t *testing.T) {
	tempDir := t.TempDir()
	stats := 0
	c := NewMetaCache(WithStat(countingStat(&stats)))

	c.Classify(tempDir)
	c.Invalidate(tempDir)
	c.Classify(tempDir)
	assert.Equal(t, 2, stats)
}
