package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Timeout bounds every git invocation so a slow repository never stalls
// the header.
const Timeout = time.Second

// Info is what the header shows for the current directory.
type Info struct {
	Dir      string
	Branch   string
	Modified map[string]bool
}

// Inspect collects branch and modified files for dir. Outside a repository
// it returns an Info with an empty branch.
func Inspect(ctx context.Context, dir string) Info {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	info := Info{Dir: dir, Modified: map[string]bool{}}
	top, err := output(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return info
	}
	info.Branch = GetBranch(ctx, dir)
	info.Modified = GetModifiedFiles(ctx, dir, top)
	return info
}

// GetModifiedFiles returns the absolute paths reported by git status.
// Paths are relative to the repository root top.
func GetModifiedFiles(ctx context.Context, dir, top string) map[string]bool {
	modified := make(map[string]bool)

	// -z keeps the two status columns intact and leaves names unquoted
	out, err := rawOutput(ctx, dir, "status", "--porcelain", "-z")
	if err != nil {
		return modified
	}
	return parsePorcelain(out, top, modified)
}

// parsePorcelain reads NUL-separated `git status --porcelain -z` records.
// A rename or copy record is followed by its source path, which is skipped.
func parsePorcelain(out, top string, modified map[string]bool) map[string]bool {
	records := strings.Split(out, "\x00")
	for i := 0; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 4 {
			continue
		}
		// Status is in first two characters, filename starts at position 3
		status, filename := rec[:2], rec[3:]
		if status[0] == 'R' || status[0] == 'C' {
			i++
		}
		modified[filepath.Join(top, filepath.FromSlash(filename))] = true
	}
	return modified
}

// GetBranch returns the current git branch name
func GetBranch(ctx context.Context, dir string) string {
	out, err := output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return out
}

// output runs git and trims the result; only for single-value queries.
func output(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := rawOutput(ctx, dir, args...)
	return strings.TrimSpace(out), err
}

func rawOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
