package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=rove", "GIT_AUTHOR_EMAIL=rove@example.com",
		"GIT_COMMITTER_NAME=rove", "GIT_COMMITTER_EMAIL=rove@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestInspectOutsideRepository(t *testing.T) {
	info := Inspect(context.Background(), t.TempDir())
	assert.Empty(t, info.Branch)
	assert.Empty(t, info.Modified)
}

func TestInspectRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	repo := t.TempDir()
	run(t, repo, "init", "-q", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "a.txt"), []byte("a"), 0644))
	run(t, repo, "add", ".")
	run(t, repo, "commit", "-q", "-m", "init")

	require.NoError(t, os.Mkdir(filepath.Join(repo, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "a.txt"), []byte("changed"), 0644))

	info := Inspect(context.Background(), filepath.Join(repo, "sub"))
	assert.Equal(t, "main", info.Branch)

	top, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	assert.True(t, info.Modified[filepath.Join(top, "a.txt")], "%v", info.Modified)
}

func TestInspectRepositoryFirstRecordAndRename(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	repo := t.TempDir()
	run(t, repo, "init", "-q", "-b", "main")
	for _, name := range []string{"a.txt", "b.txt", "old.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(repo, name), []byte(name), 0644))
	}
	run(t, repo, "add", ".")
	run(t, repo, "commit", "-q", "-m", "init")

	// Worktree-only changes start with a space in the first status column.
	require.NoError(t, os.WriteFile(filepath.Join(repo, "a.txt"), []byte("changed"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "b.txt"), []byte("changed"), 0644))
	run(t, repo, "mv", "old.txt", "new name.txt")

	top, err := filepath.EvalSymlinks(repo)
	require.NoError(t, err)
	info := Inspect(context.Background(), repo)

	assert.Equal(t, map[string]bool{
		filepath.Join(top, "a.txt"):        true,
		filepath.Join(top, "b.txt"):        true,
		filepath.Join(top, "new name.txt"): true,
	}, info.Modified)
}

func TestParsePorcelain(t *testing.T) {
	out := " M a.txt\x00R  new.txt\x00old.txt\x00?? dir/x y.go\x00"
	got := parsePorcelain(out, "/repo", map[string]bool{})
	assert.Equal(t, map[string]bool{
		filepath.Join("/repo", "a.txt"):      true,
		filepath.Join("/repo", "new.txt"):    true,
		filepath.Join("/repo", "dir/x y.go"): true,
	}, got)
}
