package main

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/rove/internal/logger"
	"github.com/LFroesch/rove/internal/nav"
)

func (m *model) Init() tea.Cmd {
	if m.watcher != nil {
		if err := m.watcher.Watch(m.nav.Dir()); err != nil {
			logger.Warn("cannot watch %s: %v", m.nav.Dir(), err)
		}
	}
	return tea.Batch(
		tea.SetWindowTitle("rove"),
		tickCmd(m.tickEvery),
		m.spinner.Tick,
		waitForWatch(m.watcher),
		m.gitInfoCmd(m.nav.Dir()),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Clear expired status messages
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// Signals arrive through the context since the program installs no
		// handler of its own.
		if m.ctx.Err() != nil {
			logger.Info("received signal, shutting down")
			return m, tea.Quit
		}
		cmd := m.applyEffect(m.nav.Tick(time.Time(msg)))
		return m, tea.Batch(cmd, tickCmd(m.tickEvery))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case watchMsg:
		cmds := []tea.Cmd{m.applyEffect(m.nav.Changed(msg.Dir, msg.Names)), waitForWatch(m.watcher)}
		if msg.Dir == m.nav.Dir() {
			cmds = append(cmds, m.gitInfoCmd(msg.Dir))
		}
		return m, tea.Batch(cmds...)

	case gitInfoMsg:
		if msg.Dir == m.nav.Dir() {
			m.gitBranch = msg.Branch
			m.gitModified = msg.Modified
		}
		return m, nil

	case openResultMsg:
		if msg.err != nil {
			logger.Warn("%v", msg.err)
			m.setStatus(msg.err.Error())
		}
		// The terminal program may have changed files we are showing.
		return m, m.applyEffect(m.nav.Refresh())

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeTodo:
			return m.updateTodo(msg)
		case modeTodoInput:
			return m.updateTodoInput(msg)
		case modeHelp:
			m.mode = modeNormal
			return m, nil
		default:
			return m.updateNormal(msg)
		}
	}

	return m, nil
}

func (m *model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var eff nav.Effect

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case msg.String() == "esc":
		eff = m.nav.ClearSearch()
	case key.Matches(msg, m.keys.Up):
		eff = m.nav.MoveUp()
	case key.Matches(msg, m.keys.Down):
		eff = m.nav.MoveDown()
	case key.Matches(msg, m.keys.Top):
		eff = m.nav.Top()
	case key.Matches(msg, m.keys.Bottom):
		eff = m.nav.Bottom()
	case key.Matches(msg, m.keys.PageUp):
		eff = m.nav.Page(-m.getContentHeight())
	case key.Matches(msg, m.keys.PageDown):
		eff = m.nav.Page(m.getContentHeight())
	case key.Matches(msg, m.keys.Parent):
		eff = m.nav.Parent()
	case key.Matches(msg, m.keys.Enter):
		eff = m.nav.Enter()
	case key.Matches(msg, m.keys.Open):
		eff = m.nav.Open()
	case key.Matches(msg, m.keys.SystemOpen):
		if path, ok := m.nav.SelectedPath(); ok {
			m.systemOpen(path)
		}
	case key.Matches(msg, m.keys.Yank):
		if path, ok := m.nav.SelectedPath(); ok {
			m.copyPath(path)
		}
	case key.Matches(msg, m.keys.Hidden):
		eff = m.nav.ToggleHidden()
	case key.Matches(msg, m.keys.Search):
		if !m.nav.BeginSearch() {
			m.setStatus("Nothing to search yet")
			return m, nil
		}
		m.mode = modeSearch
		m.searchInput.SetValue(m.nav.Query())
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.Refresh):
		eff = m.nav.Refresh()
		return m, tea.Batch(m.applyEffect(eff), tea.ClearScreen, m.gitInfoCmd(m.nav.Dir()))
	case key.Matches(msg, m.keys.Todo):
		m.mode = modeTodo
		m.clampTodoCursor()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return m, nil
	}

	return m, m.applyEffect(eff)
}

func (m *model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.mode = modeNormal
		return m, m.applyEffect(m.nav.ClearSearch())
	case "enter":
		m.searchInput.Blur()
		m.mode = modeNormal
		return m, nil
	case "up", "ctrl+p":
		return m, m.applyEffect(m.nav.MoveUp())
	case "down", "ctrl+n":
		return m, m.applyEffect(m.nav.MoveDown())
	case "ctrl+c":
		return m, tea.Quit
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.scrollOffset = 0
		return m, tea.Batch(cmd, m.applyEffect(m.nav.ApplySearch(after)))
	}
	return m, cmd
}

func (m *model) updateTodo(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.todoKeys.Back):
		m.mode = modeNormal
	case key.Matches(msg, m.todoKeys.Up):
		if m.todoCursor > 0 {
			m.todoCursor--
		}
	case key.Matches(msg, m.todoKeys.Down):
		if m.todoCursor < len(m.todos.Items)-1 {
			m.todoCursor++
		}
	case key.Matches(msg, m.todoKeys.Add):
		m.mode = modeTodoInput
		m.todoInput.SetValue("")
		return m, m.todoInput.Focus()
	case key.Matches(msg, m.todoKeys.Toggle):
		if err := m.todos.Toggle(m.todoCursor); err != nil {
			m.todoError(err)
		}
	case key.Matches(msg, m.todoKeys.Delete):
		if err := m.todos.Remove(m.todoCursor); err != nil {
			m.todoError(err)
		}
		m.clampTodoCursor()
	}
	return m, nil
}

func (m *model) updateTodoInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.todoInput.Blur()
		m.mode = modeTodo
		return m, nil
	case "enter":
		if err := m.todos.Add(m.todoInput.Value()); err != nil {
			m.todoError(err)
		}
		m.todoInput.Blur()
		m.todoInput.SetValue("")
		m.mode = modeTodo
		m.todoCursor = len(m.todos.Items) - 1
		m.clampTodoCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.todoInput, cmd = m.todoInput.Update(msg)
	return m, cmd
}

func (m *model) clampTodoCursor() {
	if m.todoCursor >= len(m.todos.Items) {
		m.todoCursor = len(m.todos.Items) - 1
	}
	if m.todoCursor < 0 {
		m.todoCursor = 0
	}
}

func (m *model) todoError(err error) {
	logger.Warn("todo: %v", err)
	m.setStatus(err.Error())
}
