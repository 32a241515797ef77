package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFroesch/rove/internal/config"
	"github.com/LFroesch/rove/internal/logger"
	"github.com/LFroesch/rove/internal/nav"
	"github.com/LFroesch/rove/internal/todo"
)

func init() {
	logger.Disable()
}

func testTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0755))
	for name, body := range map[string]string{
		"apple.txt":     "apple\n",
		"banana.md":     "# banana\n",
		"docs/guide.md": "guide\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0644))
	}
	return root
}

func testModel(t *testing.T, ctx context.Context, dir string) *model {
	t.Helper()
	cfg := config.Default()
	cfg.Settings.Pager = nil
	cfg.Settings.Highlight = false
	cfg.Openers = map[string]config.Opener{"txt": {Opener: "true", Color: "green"}}

	todos, err := todo.Load(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)

	m := newModel(ctx, cfg, dir, todos, nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// settle ticks the model until the navigator has nothing queued.
func settle(t *testing.T, m *model) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for m.nav.Loading() {
		require.True(t, time.Now().Before(deadline), "load did not finish")
		m.Update(tickMsg(time.Now()))
		time.Sleep(5 * time.Millisecond)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func rowNames(m *model) []string {
	var names []string
	for _, r := range m.nav.Snapshot().Rows {
		names = append(names, r.Name)
	}
	return names
}

func TestModelInitialListing(t *testing.T) {
	m := testModel(t, context.Background(), testTree(t))
	settle(t, m)
	assert.Equal(t, []string{"docs", "apple.txt", "banana.md"}, rowNames(m))
}

func TestModelNavigateIntoAndBack(t *testing.T) {
	root := testTree(t)
	m := testModel(t, context.Background(), root)
	settle(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, filepath.Join(root, "docs"), m.nav.Dir())
	settle(t, m)
	assert.Equal(t, []string{"guide.md"}, rowNames(m))

	m.Update(runes("h"))
	settle(t, m)
	assert.Equal(t, root, m.nav.Dir())
	assert.Equal(t, 0, m.nav.Cursor(), "cursor returns to the directory we left")

	m.Update(runes("j"))
	assert.Equal(t, 1, m.nav.Cursor())
	m.Update(runes("G"))
	assert.Equal(t, 2, m.nav.Cursor())
	m.Update(runes("g"))
	assert.Equal(t, 0, m.nav.Cursor())
}

func TestModelSearchMode(t *testing.T) {
	m := testModel(t, context.Background(), testTree(t))
	settle(t, m)

	m.Update(runes("/"))
	require.Equal(t, modeSearch, m.mode)

	m.Update(runes("an"))
	assert.Equal(t, nav.Search, m.nav.Source())
	assert.Equal(t, []string{"banana.md"}, rowNames(m))

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, nav.Normal, m.nav.Source())
	assert.Len(t, rowNames(m), 3)
}

func TestModelOpenWithoutOpenerSetsStatus(t *testing.T) {
	m := testModel(t, context.Background(), testTree(t))
	settle(t, m)

	m.Update(runes("G")) // banana.md has no opener
	m.Update(runes("o"))
	assert.Contains(t, m.statusMsg, "no opener configured for .md files")
}

func TestModelTodoPanel(t *testing.T) {
	m := testModel(t, context.Background(), testTree(t))
	settle(t, m)

	m.Update(runes("t"))
	require.Equal(t, modeTodo, m.mode)
	m.Update(runes("a"))
	require.Equal(t, modeTodoInput, m.mode)
	m.Update(runes("buy milk"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, m.todos.Items, 1)
	assert.Equal(t, "buy milk", m.todos.Items[0].Description)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.True(t, m.todos.Items[0].Completed)

	reloaded, err := todo.Load(m.todos.Path())
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 1)

	m.Update(runes("d"))
	assert.Empty(t, m.todos.Items)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeNormal, m.mode)
}

func TestModelQuitsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := testModel(t, ctx, testTree(t))
	cancel()

	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelView(t *testing.T) {
	root := testTree(t)
	m := testModel(t, context.Background(), root)
	assert.Contains(t, m.View(), nav.LoadingRow)

	settle(t, m)
	out := m.View()
	assert.Contains(t, out, filepath.Base(root))
	assert.Contains(t, out, "apple.txt")
	assert.Contains(t, out, "To-do")
}

func TestStartDirectory(t *testing.T) {
	root := testTree(t)

	dir, err := startDirectory(root, "")
	require.NoError(t, err)
	assert.Equal(t, root, dir)

	_, err = startDirectory(filepath.Join(root, "apple.txt"), "")
	assert.Error(t, err)

	cwdFile := filepath.Join(t.TempDir(), "cwd")
	require.NoError(t, writeCwdFile(cwdFile, filepath.Join(root, "docs")))
	dir, err = startDirectory("", cwdFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "docs"), dir)

	wd, err := os.Getwd()
	require.NoError(t, err)
	dir, err = startDirectory("", filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Equal(t, wd, dir)
}

func TestReadStartDirIgnoresFiles(t *testing.T) {
	root := testTree(t)
	cwdFile := filepath.Join(t.TempDir(), "cwd")
	require.NoError(t, writeCwdFile(cwdFile, filepath.Join(root, "apple.txt")))
	assert.Empty(t, readStartDir(cwdFile))
	assert.Empty(t, readStartDir(""))
}
