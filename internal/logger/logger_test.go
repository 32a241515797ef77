package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFileWritesLevels(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rove.log")
	require.NoError(t, InitFile(logPath))
	defer Close()

	Error("cannot read %s", "/root")
	Warn("slow load: %dms", 250)
	Close()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ERROR")
	assert.Contains(t, string(data), "cannot read /root")
	assert.Contains(t, string(data), "WARN")
	assert.Contains(t, string(data), "slow load: 250ms")
}

func TestDisableSuppressesOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rove.log")
	require.NoError(t, InitFile(logPath))
	Disable()
	defer Enable()

	Error("should not appear")
	Close()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should not appear")
}

func TestInitFileRotatesLargeLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rove.log")
	big := make([]byte, maxLogSize+1)
	require.NoError(t, os.WriteFile(logPath, big, 0644))

	require.NoError(t, InitFile(logPath))
	Close()

	_, err := os.Stat(logPath + ".old")
	assert.NoError(t, err, "oversized log should be rotated to .old")
	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}

func TestLogWithoutInitIsNoop(t *testing.T) {
	Close()
	assert.NotPanics(t, func() {
		Warn("nothing to write to")
	})
}
