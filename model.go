package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/rove/internal/config"
	"github.com/LFroesch/rove/internal/fscache"
	"github.com/LFroesch/rove/internal/git"
	"github.com/LFroesch/rove/internal/loader"
	"github.com/LFroesch/rove/internal/nav"
	"github.com/LFroesch/rove/internal/preview"
	"github.com/LFroesch/rove/internal/search"
	"github.com/LFroesch/rove/internal/todo"
	"github.com/LFroesch/rove/internal/watch"
)

type tickMsg time.Time

type gitInfoMsg git.Info

type watchMsg watch.Event

// openResultMsg reports how an opener invocation ended.
type openResultMsg struct {
	path string
	err  error
}

// Terminal dimension constants
const (
	minTerminalWidth  = 60 // Minimum usable width
	minTerminalHeight = 16 // Minimum usable height
	uiOverhead        = 5  // Header (1) + status (1) + borders (2) + panel title (1)
)

// Application behavior constants
const (
	tickInterval           = 100 * time.Millisecond
	responsiveTickInterval = 16 * time.Millisecond
	statusDuration         = 3 * time.Second
	todoPanelHeight        = 8
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeTodo
	modeTodoInput
	modeHelp
)

type model struct {
	ctx   context.Context
	cfg   *config.Config
	meta  *fscache.MetaCache
	nav   *nav.Navigator
	todos *todo.List

	watcher *watch.Watcher

	keys     keyMap
	todoKeys todoKeyMap
	help     help.Model
	spinner  spinner.Model

	searchInput textinput.Model
	todoInput   textinput.Model

	mode         mode
	width        int
	height       int
	scrollOffset int
	todoCursor   int
	tickEvery    time.Duration

	gitBranch   string
	gitModified map[string]bool

	statusMsg    string
	statusExpiry time.Time
}

// newModel wires the browsing engine for startDir. ctx is cancelled on
// SIGINT or SIGTERM and checked on every tick.
func newModel(ctx context.Context, cfg *config.Config, startDir string, todos *todo.List, watcher *watch.Watcher) *model {
	meta := fscache.NewMetaCache()
	dirs := fscache.NewDirCache()

	gen := preview.New(
		preview.WithPagers(cfg.Settings.Pager...),
		preview.WithHighlight(cfg.Settings.Highlight),
		preview.WithStyle(cfg.Settings.HighlightStyle),
	)

	n := nav.New(startDir, cfg.Settings.ShowHidden, nav.Deps{
		Meta:      meta,
		Dirs:      dirs,
		Loader:    loader.New(dirs),
		Search:    search.NewEngine(dirs),
		Preview:   gen,
		Debounce:  loader.NewDebouncer(),
		Style:     cfg.Color,
		NoPreview: !cfg.Settings.Preview,
	})

	si := textinput.New()
	si.Placeholder = "name, or ~fuzzy"
	si.Prompt = "/"
	si.CharLimit = 256
	si.Width = 40

	ti := textinput.New()
	ti.Placeholder = "New to-do..."
	ti.CharLimit = 256
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("105"))

	tick := tickInterval
	if cfg.Settings.Responsive {
		tick = responsiveTickInterval
	}

	return &model{
		ctx:         ctx,
		cfg:         cfg,
		meta:        meta,
		nav:         n,
		todos:       todos,
		watcher:     watcher,
		keys:        defaultKeyMap(),
		todoKeys:    defaultTodoKeyMap(),
		help:        help.New(),
		spinner:     sp,
		searchInput: si,
		todoInput:   ti,
		mode:        modeNormal,
		tickEvery:   tick,
		gitModified: map[string]bool{},
	}
}

// Helper methods for safe dimensions
func (m *model) getSafeWidth() int {
	if m.width < minTerminalWidth {
		return minTerminalWidth
	}
	return m.width
}

func (m *model) getSafeHeight() int {
	if m.height < minTerminalHeight {
		return minTerminalHeight
	}
	return m.height
}

// getContentHeight returns the rows available inside the file list border.
func (m *model) getContentHeight() int {
	availableHeight := m.getSafeHeight() - uiOverhead
	if availableHeight < 3 {
		availableHeight = 3
	}
	return availableHeight
}

func (m *model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusExpiry = time.Now().Add(statusDuration)
}
