package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Parent     key.Binding
	Enter      key.Binding
	Open       key.Binding
	SystemOpen key.Binding
	Yank       key.Binding
	Hidden     key.Binding
	Search     key.Binding
	Refresh    key.Binding
	Todo       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageUp:     key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
		Parent:     key.NewBinding(key.WithKeys("h", "left", "backspace"), key.WithHelp("←/h", "parent")),
		Enter:      key.NewBinding(key.WithKeys("l", "right", "enter"), key.WithHelp("→/l", "enter")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		SystemOpen: key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "system open")),
		Yank:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Hidden:     key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Todo:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "todos")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Parent, k.Enter, k.Search, k.Hidden, k.Todo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Parent, k.Enter, k.Open, k.SystemOpen, k.Yank},
		{k.Hidden, k.Search, k.Refresh, k.Todo, k.Help, k.Quit},
	}
}

// todoKeyMap is active while the to-do panel has focus.
type todoKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding
	Back   key.Binding
}

func defaultTodoKeyMap() todoKeyMap {
	return todoKeyMap{
		Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Add:    key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space", "toggle")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Back:   key.NewBinding(key.WithKeys("esc", "t", "q"), key.WithHelp("esc", "back")),
	}
}

func (k todoKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Toggle, k.Delete, k.Back}
}

func (k todoKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
