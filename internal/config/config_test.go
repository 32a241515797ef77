package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opener.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[settings]
show_hidden = true
responsive = true
pager = ["bat", " "]

[openers.txt]
opener = "nvim"
color = "green"

[openers.pdf]
opener = "zathura --fork"
color = "chartreuse"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.True(t, cfg.Settings.ShowHidden)
	assert.True(t, cfg.Settings.Responsive)
	assert.True(t, cfg.Settings.Preview, "defaults survive for unset keys")
	assert.True(t, cfg.Settings.Highlight)
	assert.Equal(t, []string{"bat"}, cfg.Settings.Pager)

	o, ok := cfg.Lookup("notes.txt")
	require.True(t, ok)
	assert.Equal(t, "nvim", o.Opener)
	assert.Equal(t, lipgloss.ANSIColor(2), cfg.Color("notes.txt"))
	assert.Equal(t, White, cfg.Color("paper.pdf"), "unknown color names fall back to white")
	assert.Nil(t, cfg.Color("b.rs"), "unmapped extension has no color")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }},
		{"malformed", func(t *testing.T) string { return writeConfig(t, "[openers.txt\nopener = ") }},
		{"no openers table", func(t *testing.T) string { return writeConfig(t, "[settings]\npreview = false\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, err := Load(path)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, path, cfgErr.Path)
		})
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[settings]
colour_scheme = "dark"

[openers.md]
opener = "glow"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	_, ok := cfg.Lookup("README.md")
	assert.True(t, ok)
}

func TestLoadStripsLeadingDot(t *testing.T) {
	path := writeConfig(t, "[openers.\".go\"]\nopener = \"vim\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	_, ok := cfg.Openers["go"]
	assert.True(t, ok)
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "opener.toml")
	require.NoError(t, Save(path, Sample()))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Sample().Openers, cfg.Openers)
}

func TestExt(t *testing.T) {
	tests := map[string]string{
		"a.txt":       "txt",
		"archive.TAR": "TAR",
		"x.tar.gz":    "gz",
		"Makefile":    "",
		".bashrc":     "",
		"trailing.":   "",
	}
	for name, want := range tests {
		assert.Equal(t, want, Ext(name), name)
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	cfg := &Config{Openers: map[string]Opener{"txt": {Opener: "nvim"}}}
	_, ok := cfg.Lookup("A.TXT")
	assert.False(t, ok)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/todos.json", ExpandHome("~/todos.json"))
	assert.Equal(t, "/abs/todos.json", ExpandHome("/abs/todos.json"))
}
