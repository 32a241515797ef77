// Package opener launches the program configured for a file's extension.
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/LFroesch/rove/internal/config"
	"github.com/LFroesch/rove/internal/logger"
)

// ErrNoOpener is returned when no command is mapped to the file's extension.
var ErrNoOpener = errors.New("no opener configured")

// OpenerError describes a failed open. The browsing session continues.
type OpenerError struct {
	Path string
	Ext  string
	Err  error
}

func (e *OpenerError) Error() string {
	if errors.Is(e.Err, ErrNoOpener) {
		if e.Ext == "" {
			return fmt.Sprintf("%s: no extension, %v", e.Path, e.Err)
		}
		return fmt.Sprintf("%v for .%s files", e.Err, e.Ext)
	}
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenerError) Unwrap() error { return e.Err }

// Table resolves a file name to its opener.
type Table interface {
	Lookup(name string) (config.Opener, bool)
}

// Command builds the command for path without starting it. The configured
// opener is split on whitespace and path is appended as the last argument.
func Command(path string, table Table) (*exec.Cmd, config.Opener, error) {
	ext := config.Ext(path)
	o, ok := table.Lookup(path)
	if !ok {
		return nil, o, &OpenerError{Path: path, Ext: ext, Err: ErrNoOpener}
	}
	fields := strings.Fields(o.Opener)
	if len(fields) == 0 {
		return nil, o, &OpenerError{Path: path, Ext: ext, Err: ErrNoOpener}
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...), o, nil
}

// Start runs cmd in the background and reaps it.
func Start(cmd *exec.Cmd, path string) error {
	if err := cmd.Start(); err != nil {
		return &OpenerError{Path: path, Ext: config.Ext(path), Err: err}
	}
	logger.Info("opened %s with %s (pid %d)", path, cmd.Path, cmd.Process.Pid)
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("opener for %s exited: %v", path, err)
		}
	}()
	return nil
}
