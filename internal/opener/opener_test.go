package opener

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFroesch/rove/internal/config"
)

func table(openers map[string]config.Opener) *config.Config {
	return &config.Config{Openers: openers}
}

// open mirrors how the UI launches a detached opener.
func open(path string, t Table) error {
	cmd, _, err := Command(path, t)
	if err != nil {
		return err
	}
	return Start(cmd, path)
}

func TestCommandSplitsOpener(t *testing.T) {
	cfg := table(map[string]config.Opener{"pdf": {Opener: "zathura  --fork"}})

	cmd, _, err := Command("/docs/paper.pdf", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"zathura", "--fork", "/docs/paper.pdf"}, cmd.Args)
}

func TestCommandKeepsSpacesInPath(t *testing.T) {
	cfg := table(map[string]config.Opener{"txt": {Opener: "less"}})

	cmd, _, err := Command("/tmp/my notes.txt", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"less", "/tmp/my notes.txt"}, cmd.Args)
}

func TestNoOpener(t *testing.T) {
	cfg := table(map[string]config.Opener{
		"txt": {Opener: "nvim"},
		"log": {Opener: "   "},
	})

	for _, path := range []string{"/tmp/x/b.rs", "/tmp/x/Makefile", "/tmp/x/a.TXT", "/tmp/x/app.log"} {
		err := open(path, cfg)
		var openErr *OpenerError
		require.ErrorAs(t, err, &openErr, path)
		assert.ErrorIs(t, err, ErrNoOpener, path)
		assert.Equal(t, path, openErr.Path)
	}
}

func TestOpenerErrorMessage(t *testing.T) {
	err := &OpenerError{Path: "/tmp/x/b.rs", Ext: "rs", Err: ErrNoOpener}
	assert.Equal(t, "no opener configured for .rs files", err.Error())
}

func TestOpenStartsProcess(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	cfg := table(map[string]config.Opener{"txt": {Opener: "true"}})
	assert.NoError(t, open("/tmp/x/a.txt", cfg))
}

func TestOpenSpawnFailure(t *testing.T) {
	cfg := table(map[string]config.Opener{"txt": {Opener: "definitely-not-a-real-opener-7f3a"}})

	err := open("/tmp/x/a.txt", cfg)
	var openErr *OpenerError
	require.ErrorAs(t, err, &openErr)
	assert.NotErrorIs(t, err, ErrNoOpener)
	assert.Equal(t, "txt", openErr.Ext)
}
