package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"

	"github.com/LFroesch/rove/internal/git"
	"github.com/LFroesch/rove/internal/logger"
	"github.com/LFroesch/rove/internal/nav"
	"github.com/LFroesch/rove/internal/opener"
	"github.com/LFroesch/rove/internal/watch"
)

// Helper functions

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForWatch blocks on the watcher until the next batch of changes.
func waitForWatch(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return nil
		}
		return watchMsg(ev)
	}
}

func (m *model) gitInfoCmd(dir string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return gitInfoMsg(git.Inspect(ctx, dir))
	}
}

// applyEffect carries out what the navigator asked for.
func (m *model) applyEffect(eff nav.Effect) tea.Cmd {
	var cmds []tea.Cmd
	if eff.Status != "" {
		m.setStatus(eff.Status)
	}
	if eff.DirChanged {
		m.scrollOffset = 0
		m.gitBranch = ""
		m.gitModified = map[string]bool{}
		dir := m.nav.Dir()
		if m.watcher != nil {
			if err := m.watcher.Watch(dir); err != nil {
				logger.Warn("cannot watch %s: %v", dir, err)
			}
		}
		cmds = append(cmds, m.gitInfoCmd(dir))
	}
	if eff.Open != "" {
		cmds = append(cmds, m.openFile(eff.Open))
	}
	return tea.Batch(cmds...)
}

// openFile runs the opener configured for path. Terminal programs take
// over the screen until they exit; everything else is started detached.
func (m *model) openFile(path string) tea.Cmd {
	cmd, o, err := opener.Command(path, m.cfg)
	if err != nil {
		logger.Warn("%v", err)
		m.setStatus(err.Error())
		return nil
	}

	if o.Terminal {
		logger.Info("running %s in terminal", strings.Join(cmd.Args, " "))
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			if err != nil {
				err = &opener.OpenerError{Path: path, Err: err}
			}
			return openResultMsg{path: path, err: err}
		})
	}

	if err := opener.Start(cmd, path); err != nil {
		logger.Warn("%v", err)
		m.setStatus(err.Error())
		return nil
	}
	m.setStatus(fmt.Sprintf("Opened %s", filepath.Base(path)))
	return nil
}

// systemOpen hands path to the desktop's default application.
func (m *model) systemOpen(path string) {
	if err := open.Start(path); err != nil {
		logger.Warn("system open %s: %v", path, err)
		m.setStatus(fmt.Sprintf("Failed to open: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("Opening %s", filepath.Base(path)))
}

func (m *model) copyPath(path string) {
	if err := clipboard.WriteAll(path); err != nil {
		logger.Warn("clipboard: %v", err)
		m.setStatus(fmt.Sprintf("Failed to copy: %v", err))
		return
	}
	m.setStatus(fmt.Sprintf("Copied: %s", path))
}

// readStartDir returns the directory recorded in the cwd file, or "" when
// the file is missing or does not name a directory.
func readStartDir(cwdFile string) string {
	if cwdFile == "" {
		return ""
	}
	data, err := os.ReadFile(cwdFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("read cwd file: %v", err)
		}
		return ""
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

func absPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}

// writeCwdFile records dir so a shell wrapper can cd there after exit.
func writeCwdFile(cwdFile, dir string) error {
	if cwdFile == "" {
		return nil
	}
	return os.WriteFile(cwdFile, []byte(dir+"\n"), 0644)
}
